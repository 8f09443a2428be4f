package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"brt/internal/config"
	"brt/internal/connectivity"
	"brt/internal/storage/sqlite"
)

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// sink collects messages the observer pushes into the event loop.
type sink struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *sink) send(msg tea.Msg) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
}

func (s *sink) drain() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.msgs
	s.msgs = nil
	return out
}

func newTestModel(t *testing.T, n connectivity.Notifier, opts connectivity.Options) (*Model, *sink) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "brt.db"))
	if err != nil {
		t.Fatalf("sqlite.New() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := NewModel(Deps{
		Storage:  store,
		Config:   config.DefaultConfig(),
		Notifier: n,
		Observer: opts,
	})
	s := &sink{}
	m.send = s.send
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, s
}

func mount(t *testing.T, m *Model) {
	t.Helper()
	msg := mountObserver(m.observer)()
	m.Update(msg)
}

func deliver(m *Model, s *sink) {
	for _, msg := range s.drain() {
		m.Update(msg)
	}
}

func TestMountShowsOptimisticDefault(t *testing.T) {
	n := connectivity.NewManualNotifier()
	m, _ := newTestModel(t, n, connectivity.Options{})
	mount(t, m)
	defer m.Unmount()

	if !m.mounted || m.connState != connectivity.Online {
		t.Fatalf("mounted=%v state=%v, want mounted online", m.mounted, m.connState)
	}
	if !strings.Contains(m.View(), "ONLINE") {
		t.Errorf("header does not show ONLINE")
	}
	if n.Subscribers() != 1 {
		t.Errorf("subscribers = %d, want 1", n.Subscribers())
	}
}

func TestConnectivityEventsReachView(t *testing.T) {
	n := connectivity.NewManualNotifier()
	m, s := newTestModel(t, n, connectivity.Options{})
	mount(t, m)
	defer m.Unmount()

	n.Fire(connectivity.Event{IsConnected: false})
	deliver(m, s)
	if m.connState != connectivity.Offline || !strings.Contains(m.View(), "OFFLINE") {
		t.Fatalf("state = %v, want offline shown in header", m.connState)
	}

	n.Fire(connectivity.Event{IsConnected: true})
	deliver(m, s)
	if m.connState != connectivity.Online {
		t.Fatalf("state = %v, want online", m.connState)
	}
}

func TestMountedMessageAfterChangeKeepsNewerState(t *testing.T) {
	n := connectivity.NewManualNotifier()
	m, s := newTestModel(t, n, connectivity.Options{})
	defer m.Unmount()

	mounted := mountObserver(m.observer)()
	n.Fire(connectivity.Event{IsConnected: false})

	// The change reaches the loop ahead of the mount result.
	deliver(m, s)
	m.Update(mounted)

	if !m.mounted {
		t.Fatal("model not marked mounted")
	}
	if m.connState != connectivity.Offline || !strings.Contains(m.View(), "OFFLINE") {
		t.Fatalf("state = %v, want offline kept after mount result", m.connState)
	}
}

func TestUnmountStopsUpdates(t *testing.T) {
	n := connectivity.NewManualNotifier()
	m, s := newTestModel(t, n, connectivity.Options{})
	mount(t, m)
	m.Unmount()

	n.Fire(connectivity.Event{IsConnected: false})
	if msgs := s.drain(); len(msgs) != 0 {
		t.Fatalf("messages after Unmount: %v", msgs)
	}
	if n.Subscribers() != 0 {
		t.Fatalf("subscription leaked")
	}
	if m.connState != connectivity.Online {
		t.Fatalf("state changed after Unmount: %v", m.connState)
	}
}

func TestRemountStartsFresh(t *testing.T) {
	n := connectivity.NewManualNotifier()
	m, s := newTestModel(t, n, connectivity.Options{})
	mount(t, m)
	n.Fire(connectivity.Event{IsConnected: false})
	deliver(m, s)
	m.Unmount()

	fresh, _ := newTestModel(t, n, connectivity.Options{})
	mount(t, fresh)
	defer fresh.Unmount()
	if fresh.connState != connectivity.Online {
		t.Fatalf("new UI instance state = %v, want online", fresh.connState)
	}
}

func TestMountFailureQuits(t *testing.T) {
	n := connectivity.NewManualNotifier()
	n.Fail(errors.New("netinfo unavailable"))
	m, _ := newTestModel(t, n, connectivity.Options{})

	_, cmd := m.Update(mountObserver(m.observer)())
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("command did not quit")
	}
	if m.Err() == nil || !strings.Contains(m.Err().Error(), "netinfo unavailable") {
		t.Fatalf("Err() = %v", m.Err())
	}
}

func TestMountFailureFallback(t *testing.T) {
	n := connectivity.NewManualNotifier()
	n.Fail(errors.New("netinfo unavailable"))
	m, _ := newTestModel(t, n, connectivity.Options{FailurePolicy: connectivity.FailUnknown})
	mount(t, m)
	defer m.Unmount()

	if m.Err() != nil {
		t.Fatalf("Err() = %v, want nil", m.Err())
	}
	if m.connState != connectivity.Unknown || !strings.Contains(m.View(), "UNKNOWN") {
		t.Fatalf("state = %v, want unknown", m.connState)
	}
}

func TestTabNavigation(t *testing.T) {
	m, _ := newTestModel(t, connectivity.NewManualNotifier(), connectivity.Options{})

	for i, want := range []int{tabRoles, tabActionLog, tabSettings, tabSteps} {
		m.Update(keyTab)
		if i == 1 {
			// Leave the log field; tab still moves on while it has focus.
			m.Update(keyEsc)
		}
		if m.activeTab != want {
			t.Fatalf("after %d tabs activeTab = %d, want %d", i+1, m.activeTab, want)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeTab != tabSettings {
		t.Fatalf("shift+tab activeTab = %d, want settings", m.activeTab)
	}
}

func TestStepsAndRolesRender(t *testing.T) {
	m, _ := newTestModel(t, connectivity.NewManualNotifier(), connectivity.Options{})

	view := m.View()
	for _, want := range []string{"Crisis Steps", "What to Do", "Sit Rep"} {
		if !strings.Contains(view, want) {
			t.Errorf("steps view missing %q", want)
		}
	}

	m.Update(keyTab)
	if !strings.Contains(m.View(), "List of key people and responsibilities") {
		t.Errorf("roles view missing summary")
	}
}

func TestActionLogSubmit(t *testing.T) {
	n := connectivity.NewManualNotifier()
	m, s := newTestModel(t, n, connectivity.Options{})
	mount(t, m)
	defer m.Unmount()

	m.Update(keyTab)
	m.Update(keyTab)
	if m.activeTab != tabActionLog || !m.actionLogTab.editing() {
		t.Fatalf("action log not focused: tab=%d", m.activeTab)
	}

	n.Fire(connectivity.Event{IsConnected: false})
	deliver(m, s)
	if !strings.Contains(m.View(), "Status: Offline") {
		t.Errorf("action log does not show Status: Offline")
	}

	// q is text while the field has focus.
	if _, handled := m.handleGlobalKey(runes("q")); handled {
		t.Fatal("q was treated as quit while typing")
	}
	m.Update(runes("Evacuated floor 3"))
	if got := m.actionLogTab.draft.Value(); got != "Evacuated floor 3" {
		t.Fatalf("draft = %q", got)
	}

	cmd := m.actionLogTab.Update(keyEnter, m)
	if cmd == nil {
		t.Fatal("enter did not submit")
	}
	added, ok := cmd().(entryAddedMsg)
	if !ok || added.entry != "Evacuated floor 3" {
		t.Fatalf("submit message = %#v", added)
	}
	if m.actionLogTab.input.Value() != "" || m.actionLogTab.draft.Value() != "" {
		t.Fatalf("draft not cleared after submit")
	}

	m.Update(added)
	if m.notification != "Entry added" {
		t.Errorf("notification = %q", m.notification)
	}

	if cmd := m.actionLogTab.Update(keyEnter, m); cmd != nil {
		t.Fatal("empty draft submitted")
	}
}

func TestActionLogDraftDiscardedOnUnmount(t *testing.T) {
	m, _ := newTestModel(t, connectivity.NewManualNotifier(), connectivity.Options{})
	mount(t, m)

	m.Update(keyTab)
	m.Update(keyTab)
	m.Update(runes("unsent"))
	m.Unmount()

	if m.actionLogTab.draft.Value() != "" || m.actionLogTab.input.Value() != "" {
		t.Fatalf("draft survived Unmount")
	}
}

func TestSettingsSave(t *testing.T) {
	m, _ := newTestModel(t, connectivity.NewManualNotifier(), connectivity.Options{})
	m.activeTab = tabSettings

	// Move to the interval row.
	for m.settingsTab.currentDef().Key != config.KeyProbeInterval {
		m.settingsTab.Update(runes("j"), m)
	}

	m.settingsTab.Update(keyEnter, m)
	if !m.settingsTab.editing || m.settingsTab.input.Value() != "30" {
		t.Fatalf("editing=%v value=%q", m.settingsTab.editing, m.settingsTab.input.Value())
	}
	m.settingsTab.input.SetValue("45")
	cmd := m.settingsTab.Update(keyEnter, m)
	if cmd == nil {
		t.Fatal("enter did not save")
	}
	msg := cmd().(settingSavedMsg)
	if msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}
	if got, _ := m.store.GetSetting(context.Background(), config.KeyProbeInterval); got != "45" {
		t.Fatalf("stored interval = %q, want 45", got)
	}

	// Invalid input is rejected before it reaches storage.
	m.settingsTab.Update(keyEnter, m)
	m.settingsTab.input.SetValue("soon")
	if cmd := m.settingsTab.Update(keyEnter, m); cmd != nil {
		t.Fatal("invalid value was saved")
	}
	if !m.notificationErr {
		t.Errorf("invalid value did not raise an error notification")
	}
}

func TestSettingsCycleChoice(t *testing.T) {
	m, _ := newTestModel(t, connectivity.NewManualNotifier(), connectivity.Options{})

	// First row is the startup state: online -> unknown.
	cmd := m.settingsTab.Update(runes("l"), m)
	if cmd == nil {
		t.Fatal("cycling did not save")
	}
	if msg := cmd().(settingSavedMsg); msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}
	if got, _ := m.store.GetSetting(context.Background(), config.KeyStartupState); got != "unknown" {
		t.Fatalf("startup_state = %q, want unknown", got)
	}
}
