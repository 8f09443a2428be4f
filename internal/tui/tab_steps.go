package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"brt/internal/reference"
)

// stepItem implements list.Item for the crisis steps list.
type stepItem struct {
	step reference.Step
	n    int
}

func (i stepItem) Title() string       { return i.step.Title }
func (i stepItem) FilterValue() string { return i.step.Title }
func (i stepItem) Description() string { return "" }

// stepItemDelegate renders each step with its colored glyph.
type stepItemDelegate struct{}

func (d stepItemDelegate) Height() int                             { return 1 }
func (d stepItemDelegate) Spacing() int                            { return 1 }
func (d stepItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d stepItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(stepItem)
	if !ok {
		return
	}

	glyph := stepStyle(si.step.Color).Render(reference.Glyph(si.step.Icon))
	label := fmt.Sprintf("%d. %s", si.n, si.step.Title)

	if index == m.Index() {
		fmt.Fprintf(w, "%s %s", lipgloss.NewStyle().Bold(true).Foreground(colorNavy).Render(">"),
			glyph+" "+lipgloss.NewStyle().Bold(true).Foreground(colorNavy).Render(label))
		return
	}
	fmt.Fprintf(w, "  %s %s", glyph, lipgloss.NewStyle().Foreground(colorFg).Render(label))
}

// stepsModel manages the crisis steps tab.
type stepsModel struct {
	list   list.Model
	width  int
	height int
}

func newStepsModel(steps []reference.Step) stepsModel {
	items := make([]list.Item, len(steps))
	for i, s := range steps {
		items[i] = stepItem{step: s, n: i + 1}
	}

	l := list.New(items, stepItemDelegate{}, 0, 0)
	l.Title = "Crisis Steps"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(colorNavy)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(colorNavy)

	return stepsModel{list: l}
}

func (sm *stepsModel) setSize(w, h int) {
	sm.width = w
	sm.height = h
	sm.list.SetSize(w, h)
}

func (sm *stepsModel) selected() (reference.Step, bool) {
	item, ok := sm.list.SelectedItem().(stepItem)
	if !ok {
		return reference.Step{}, false
	}
	return item.step, true
}

// filtering reports whether the list is capturing keys for its filter.
func (sm *stepsModel) filtering() bool {
	return sm.list.FilterState() == list.Filtering
}

func (sm *stepsModel) Update(msg tea.Msg, root *Model) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && !sm.filtering() && key.Matches(km, keys.Enter) {
		if s, ok := sm.selected(); ok {
			root.setNotification(fmt.Sprintf("%s %s", reference.Glyph(s.Icon), s.Title), false)
		}
		return nil
	}

	var cmd tea.Cmd
	sm.list, cmd = sm.list.Update(msg)
	return cmd
}

func (sm *stepsModel) View() string {
	return forceHeight(sm.list.View(), sm.width, sm.height)
}
