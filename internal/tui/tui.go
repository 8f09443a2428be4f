package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"brt/internal/actionlog"
	"brt/internal/config"
	"brt/internal/connectivity"
	"brt/internal/reference"
	"brt/internal/storage"
)

// Tab indices.
const (
	tabSteps     = 0
	tabRoles     = 1
	tabActionLog = 2
	tabSettings  = 3
	tabCount     = 4
)

// Model is the root BubbleTea model.
type Model struct {
	// Dependencies.
	store    storage.Storage
	observer *connectivity.Observer
	log      *zap.Logger

	// send delivers messages from other goroutines into the event loop.
	send func(tea.Msg)

	// Dimensions.
	width  int
	height int

	// Navigation.
	activeTab int
	showHelp  bool

	// Connectivity state as last delivered to the event loop.
	connState connectivity.State
	mounted   bool
	err       error

	// Tab models.
	stepsTab     stepsModel
	rolesTab     rolesModel
	actionLogTab actionLogModel
	settingsTab  settingsModel

	// Notification.
	notification    string
	notificationErr bool
	notifVersion    int

	spinner spinner.Model
}

// Deps holds all dependencies injected into the TUI.
type Deps struct {
	Storage   storage.Storage
	Config    config.Config
	Reference *reference.Material
	Notifier  connectivity.Notifier
	Observer  connectivity.Options
	Logger    *zap.Logger
}

// NewModel creates a new root Model. The observer is mounted by Init.
func NewModel(deps Deps) *Model {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	material := deps.Reference
	if material == nil {
		material = reference.Default()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := &Model{
		store:        deps.Storage,
		log:          log.Named("tui"),
		activeTab:    tabSteps,
		connState:    deps.Observer.StartupState,
		spinner:      s,
		stepsTab:     newStepsModel(material.Steps),
		rolesTab:     newRolesModel(material.RolesSummary, material.Roles),
		actionLogTab: newActionLogModel(actionlog.NewDraft(log)),
		settingsTab:  newSettingsModel(deps.Config),
	}

	opts := deps.Observer
	opts.OnChange = func(state connectivity.State) {
		if m.send != nil {
			m.send(connectivityMsg{state: state})
		}
	}
	m.observer = connectivity.NewObserver(deps.Notifier, opts)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		mountObserver(m.observer),
		m.spinner.Tick,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	prevNotifVersion := m.notifVersion
	prevState := m.connState

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		ch := m.contentHeight()
		m.stepsTab.setSize(msg.Width, ch)
		m.rolesTab.setSize(msg.Width, ch)
		m.actionLogTab.setSize(msg.Width, ch)
		m.settingsTab.setSize(msg.Width, ch)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	// Connectivity.
	case observerMountedMsg:
		if msg.err != nil {
			// No fallback was configured: the UI cannot run without a source.
			m.err = fmt.Errorf("connectivity: %w", msg.err)
			m.log.Error("observer mount failed", zap.Error(msg.err))
			return m, tea.Quit
		}
		m.mounted = true
		// Read the observer itself: events applied during Mount may already
		// have been handled as connectivityMsg.
		m.connState = m.observer.State()
	case connectivityMsg:
		m.connState = msg.state

	// Action log.
	case entryAddedMsg:
		m.setNotification("Entry added", false)

	// Settings.
	case settingSavedMsg:
		if msg.err != nil {
			m.setNotification(fmt.Sprintf("Save failed: %v", msg.err), true)
		} else {
			m.setNotification(fmt.Sprintf("Saved %s", msg.key), false)
		}

	// Notification.
	case clearNotificationMsg:
		if msg.version == m.notifVersion {
			m.notification = ""
			m.notificationErr = false
		}
	}

	// Spinner keeps ticking only while the state is unknown.
	if _, ok := msg.(spinner.TickMsg); ok && m.connState == connectivity.Unknown {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.connState == connectivity.Unknown && prevState != connectivity.Unknown {
		cmds = append(cmds, m.spinner.Tick)
	}

	// Delegate to active tab.
	switch m.activeTab {
	case tabSteps:
		cmds = append(cmds, m.stepsTab.Update(msg, m))
	case tabRoles:
		cmds = append(cmds, m.rolesTab.Update(msg, m))
	case tabActionLog:
		cmds = append(cmds, m.actionLogTab.Update(msg, m))
	case tabSettings:
		cmds = append(cmds, m.settingsTab.Update(msg, m))
	}

	// Schedule notification auto-clear when a new notification was set.
	if m.notifVersion > prevNotifVersion && m.notification != "" {
		cmds = append(cmds, clearNotification(4*time.Second, m.notifVersion))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := renderHeader(m.activeTab, m.connState, m.width)

	var content string
	switch m.activeTab {
	case tabSteps:
		content = m.stepsTab.View()
	case tabRoles:
		content = m.rolesTab.View()
	case tabActionLog:
		content = m.actionLogTab.View(m.connState, m.spinner)
	case tabSettings:
		content = m.settingsTab.View()
	}

	var notif string
	if m.notification != "" {
		if m.notificationErr {
			notif = notifErrorStyle.Render("! " + m.notification)
		} else {
			notif = notifSuccessStyle.Render("* " + m.notification)
		}
	}

	footer := renderFooter(renderHelpBar(m.showHelp), m.width)

	parts := []string{header}
	if notif != "" {
		parts = append(parts, notif)
	}
	parts = append(parts, content, footer)
	output := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Force exactly m.height lines to prevent BubbleTea rendering drift.
	return forceHeight(output, m.width, m.height)
}

// forceHeight ensures the string has exactly `height` lines, each padded to `width`.
func forceHeight(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	blank := strings.Repeat(" ", width)
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) contentHeight() int {
	overhead := 5
	if m.showHelp {
		overhead += 3
	}
	h := m.height - overhead
	if h < 1 {
		h = 1
	}
	return h
}

// capturingInput reports whether the active tab owns the keyboard.
func (m *Model) capturingInput() bool {
	switch m.activeTab {
	case tabSteps:
		return m.stepsTab.filtering()
	case tabActionLog:
		return m.actionLogTab.editing()
	case tabSettings:
		return m.settingsTab.editing
	}
	return false
}

func (m *Model) switchTab(to int) tea.Cmd {
	if m.activeTab == tabActionLog {
		m.actionLogTab.blur()
	}
	m.activeTab = (to + tabCount) % tabCount
	if m.activeTab == tabActionLog {
		return m.actionLogTab.focus()
	}
	return nil
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, keys.ForceQuit) {
		return tea.Quit, true
	}

	// Text fields get tab navigation and nothing else.
	if m.capturingInput() {
		if m.activeTab == tabActionLog {
			switch {
			case key.Matches(msg, keys.TabNext):
				return m.switchTab(m.activeTab + 1), true
			case key.Matches(msg, keys.TabPrev):
				return m.switchTab(m.activeTab - 1), true
			}
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		if m.width > 0 {
			return func() tea.Msg { return tea.WindowSizeMsg{Width: m.width, Height: m.height} }, true
		}
		return nil, true

	case key.Matches(msg, keys.TabNext):
		return m.switchTab(m.activeTab + 1), true

	case key.Matches(msg, keys.TabPrev):
		return m.switchTab(m.activeTab - 1), true
	}

	return nil, false
}

func (m *Model) setNotification(text string, isErr bool) {
	m.notification = text
	m.notificationErr = isErr
	m.notifVersion++
}

// Unmount releases the connectivity subscription and discards the draft.
// Call it once the program has exited, never from Update: an in-flight
// delivery waits on the event loop.
func (m *Model) Unmount() {
	m.observer.Unmount()
	m.actionLogTab.reset()
	m.mounted = false
}

// Err returns the fatal error that stopped the UI, if any.
func (m *Model) Err() error {
	return m.err
}

// NewProgram creates a bubbletea program with alt screen.
func NewProgram(m *Model) *tea.Program {
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.send = p.Send
	return p
}

// Run mounts the UI, blocks until it exits, then unmounts.
func Run(deps Deps) error {
	m := NewModel(deps)
	p := NewProgram(m)

	_, err := p.Run()
	m.Unmount()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return m.Err()
}
