package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"brt/internal/config"
)

type settingsModel struct {
	settings map[string]string
	defaults config.Config
	cursor   int
	editing  bool
	input    textinput.Model
	width    int
	height   int
}

func newSettingsModel(current config.Config) settingsModel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorNavy)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorFg)

	settings := make(map[string]string, len(config.Definitions))
	for _, def := range config.Definitions {
		settings[def.Key] = current.Value(def.Key)
	}

	return settingsModel{
		settings: settings,
		defaults: config.DefaultConfig(),
		input:    ti,
	}
}

func (sm *settingsModel) setSize(w, h int) {
	sm.width = w
	sm.height = h
	sm.input.Width = w / 2
}

func (sm *settingsModel) currentDef() config.Definition {
	if sm.cursor >= 0 && sm.cursor < len(config.Definitions) {
		return config.Definitions[sm.cursor]
	}
	return config.Definitions[0]
}

func (sm *settingsModel) currentValue() string {
	return sm.settings[sm.currentDef().Key]
}

// choiceIndex returns the current index in the choices slice for a choice setting.
func (sm *settingsModel) choiceIndex(def config.Definition) int {
	val := sm.currentValue()
	for i, c := range def.Choices {
		if strings.EqualFold(c, val) {
			return i
		}
	}
	return 0
}

func (sm *settingsModel) Update(msg tea.Msg, root *Model) tea.Cmd {
	if sm.editing {
		return sm.updateEditing(msg, root)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		def := sm.currentDef()

		switch msg.String() {
		case "up", "k":
			if sm.cursor > 0 {
				sm.cursor--
			}
		case "down", "j":
			if sm.cursor < len(config.Definitions)-1 {
				sm.cursor++
			}
		case "enter":
			if def.Kind == config.KindChoice {
				return sm.cycleChoice(root, 1)
			}
			sm.editing = true
			sm.input.SetValue(sm.currentValue())
			sm.input.Focus()
			return textinput.Blink
		case "left", "h":
			if def.Kind == config.KindChoice {
				return sm.cycleChoice(root, -1)
			}
		case "right", "l":
			if def.Kind == config.KindChoice {
				return sm.cycleChoice(root, 1)
			}
		}
	}
	return nil
}

// cycleChoice moves to the next/prev choice and saves it.
func (sm *settingsModel) cycleChoice(root *Model, dir int) tea.Cmd {
	def := sm.currentDef()
	idx := sm.choiceIndex(def)
	idx = (idx + dir + len(def.Choices)) % len(def.Choices)
	val := def.Choices[idx]
	sm.settings[def.Key] = val
	return saveSetting(root.store, def.Key, val)
}

func (sm *settingsModel) updateEditing(msg tea.Msg, root *Model) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			sm.editing = false
			sm.input.Blur()
			return nil
		case msg.String() == "enter":
			sm.editing = false
			sm.input.Blur()
			def := sm.currentDef()
			val := strings.TrimSpace(sm.input.Value())
			if err := config.ValidateSetting(def.Key, val); err != nil {
				root.setNotification(err.Error(), true)
				return nil
			}
			sm.settings[def.Key] = val
			return saveSetting(root.store, def.Key, val)
		}
	}

	var cmd tea.Cmd
	sm.input, cmd = sm.input.Update(msg)
	return cmd
}

func (sm *settingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Changes apply the next time brt starts."))
	b.WriteString("\n\n")

	for i, def := range config.Definitions {
		isSelected := i == sm.cursor
		val := sm.settings[def.Key]
		if val == "" {
			val = "-"
		}

		var line string
		if isSelected {
			label := lipgloss.NewStyle().Bold(true).Foreground(colorNavy).Width(18).Render("> " + def.Label)
			switch {
			case sm.editing:
				line = label + sm.input.View()
			case def.Kind == config.KindChoice:
				line = label + sm.renderChoices(def, val)
			default:
				line = label + lipgloss.NewStyle().Foreground(colorFg).Render(val)
			}
		} else {
			label := lipgloss.NewStyle().Foreground(colorFg).Width(18).Render("  " + def.Label)
			line = label + lipgloss.NewStyle().Foreground(colorDimFg).Render(val)
		}

		b.WriteString(line + "\n")

		// Show description for selected item.
		if isSelected && !sm.editing {
			hint := def.Description
			if def.Kind == config.KindChoice {
				hint += "  (enter/arrows to change)"
			} else if d := sm.defaults.Value(def.Key); d != "" {
				hint += fmt.Sprintf("  (enter to edit, default: %s)", d)
			} else {
				hint += "  (enter to edit)"
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(colorDimFg).
				PaddingLeft(2).
				Render("  "+hint) + "\n")
		}
	}

	return forceHeight(b.String(), sm.width, sm.height)
}

// renderChoices renders the choice selector with the active choice highlighted.
func (sm *settingsModel) renderChoices(def config.Definition, current string) string {
	var parts []string
	for _, c := range def.Choices {
		if strings.EqualFold(c, current) {
			parts = append(parts, lipgloss.NewStyle().
				Bold(true).
				Foreground(colorNavy).
				Render("["+c+"]"))
		} else {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(colorDimFg).
				Render(" "+c+" "))
		}
	}
	return strings.Join(parts, " ")
}
