package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"brt/internal/reference"
)

type rolesModel struct {
	summary string
	roles   []reference.Role
	table   table.Model
	width   int
	height  int
}

func newRolesModel(summary string, roles []reference.Role) rolesModel {
	cols := []table.Column{
		{Title: "Role", Width: 20},
		{Title: "Holder", Width: 18},
		{Title: "Responsibilities", Width: 40},
	}

	rows := make([]table.Row, len(roles))
	for i, r := range roles {
		rows[i] = table.Row{r.Name, r.Holder, strings.Join(r.Responsibilities, "; ")}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(colorNavy)
	s.Selected = s.Selected.
		Foreground(colorFg).
		Background(lipgloss.AdaptiveColor{Light: "#DCE6F2", Dark: "#1B2A3D"}).
		Bold(true)
	t.SetStyles(s)

	return rolesModel{summary: summary, roles: roles, table: t}
}

func (rm *rolesModel) setSize(w, h int) {
	rm.width = w
	rm.height = h

	// Card border, padding, title and summary take 8 lines.
	th := h - 8
	if th < 3 {
		th = 3
	}
	rm.table.SetHeight(th)

	// Give the responsibilities column whatever is left.
	cols := rm.table.Columns()
	if len(cols) == 3 {
		rest := w - 10 - cols[0].Width - cols[1].Width
		if rest > 20 {
			cols[2].Width = rest
			rm.table.SetColumns(cols)
		}
	}
}

func (rm *rolesModel) Update(msg tea.Msg, root *Model) tea.Cmd {
	if len(rm.roles) == 0 {
		return nil
	}
	var cmd tea.Cmd
	rm.table, cmd = rm.table.Update(msg)
	return cmd
}

func (rm *rolesModel) View() string {
	parts := []string{cardTitleStyle.Render("Roles")}
	if rm.summary != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorFg).Render(rm.summary))
	}
	if len(rm.roles) > 0 {
		parts = append(parts, "", rm.table.View())
	}

	w := rm.width - 6
	if w < 30 {
		w = 30
	}
	card := cardStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return forceHeight(card, rm.width, rm.height)
}
