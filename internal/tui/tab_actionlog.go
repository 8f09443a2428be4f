package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"brt/internal/actionlog"
	"brt/internal/connectivity"
)

type actionLogModel struct {
	draft  *actionlog.Draft
	input  textinput.Model
	width  int
	height int
}

func newActionLogModel(draft *actionlog.Draft) actionLogModel {
	ti := textinput.New()
	ti.Placeholder = "Write a new log entry"
	ti.CharLimit = 500
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorNavy)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorFg)

	return actionLogModel{draft: draft, input: ti}
}

func (am *actionLogModel) setSize(w, h int) {
	am.width = w
	am.height = h
	am.input.Width = max(w-14, 10)
}

// editing reports whether keystrokes belong to the text field.
func (am *actionLogModel) editing() bool {
	return am.input.Focused()
}

func (am *actionLogModel) focus() tea.Cmd {
	am.input.Focus()
	return textinput.Blink
}

func (am *actionLogModel) blur() {
	am.input.Blur()
}

// reset discards the draft, as when the UI unmounts.
func (am *actionLogModel) reset() {
	am.draft.Reset()
	am.input.Reset()
}

func (am *actionLogModel) Update(msg tea.Msg, root *Model) tea.Cmd {
	km, isKey := msg.(tea.KeyMsg)

	if !am.editing() {
		if isKey && (key.Matches(km, keys.Compose) || key.Matches(km, keys.Enter)) {
			return am.focus()
		}
		return nil
	}

	if isKey {
		switch {
		case key.Matches(km, keys.Back):
			am.blur()
			return nil
		case key.Matches(km, keys.Enter):
			return am.submit()
		}
	}

	var cmd tea.Cmd
	am.input, cmd = am.input.Update(msg)
	am.draft.Set(am.input.Value())
	return cmd
}

// submit traces the draft and clears the field. Empty drafts do nothing.
func (am *actionLogModel) submit() tea.Cmd {
	am.draft.Set(am.input.Value())
	entry, ok := am.draft.Submit()
	if !ok {
		return nil
	}
	am.input.SetValue("")
	return func() tea.Msg { return entryAddedMsg{entry: entry} }
}

func (am *actionLogModel) View(state connectivity.State, s spinner.Model) string {
	var status string
	switch state {
	case connectivity.Online:
		status = successStyle.Render(state.Label())
	case connectivity.Offline:
		status = errorStyle.Render(state.Label())
	default:
		status = warningStyle.Render(state.Label()) + " " + s.View()
	}

	button := buttonStyle.Render("Add Entry")
	hint := dimStyle.Render("press i to write, enter to add, esc to leave the field")
	if am.editing() {
		hint = dimStyle.Render("enter to add, esc to leave the field")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Action Log"),
		"Status: "+status,
		"",
		am.input.View(),
		"",
		button,
		"",
		hint,
	)

	w := am.width - 6
	if w < 30 {
		w = 30
	}
	return forceHeight(cardStyle.Width(w).Render(content), am.width, am.height)
}
