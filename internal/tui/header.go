package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"brt/internal/connectivity"
)

var tabNames = []string{"Crisis Steps", "Roles", "Action Log", "Settings"}

func renderPill(state connectivity.State) string {
	switch state {
	case connectivity.Online:
		return onlinePillStyle.Render(" ONLINE ")
	case connectivity.Offline:
		return offlinePillStyle.Render(" OFFLINE ")
	default:
		return unknownPillStyle.Render(" UNKNOWN ")
	}
}

func renderHeader(activeTab int, state connectivity.State, width int) string {
	logo := logoStyle.Render("BRT")
	pill := renderPill(state)

	var tabs []string
	for i, name := range tabNames {
		if i == activeTab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	// First row: logo + pill right-aligned.
	gap := width - lipgloss.Width(logo) - lipgloss.Width(pill)
	if gap < 1 {
		gap = 1
	}
	topRow := logo + strings.Repeat(" ", gap) + pill

	sep := lipgloss.NewStyle().
		Foreground(colorBorder).
		Render(strings.Repeat("─", max(width, 0)))

	return lipgloss.JoinVertical(lipgloss.Left, topRow, tabBar, sep)
}

func renderFooter(helpText string, width int) string {
	sep := lipgloss.NewStyle().
		Foreground(colorBorder).
		Render(strings.Repeat("─", max(width, 0)))
	return lipgloss.JoinVertical(lipgloss.Left, sep, helpBarStyle.Render(helpText))
}

func renderHelpBar(showFull bool) string {
	if showFull {
		return renderFullHelp()
	}
	return renderShortHelp()
}

func renderShortHelp() string {
	var parts []string
	for _, b := range keys.ShortHelp() {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
	}
	return strings.Join(parts, helpSepStyle.Render(" | "))
}

func renderFullHelp() string {
	var lines []string
	for _, group := range keys.FullHelp() {
		var parts []string
		for _, b := range group {
			if !b.Enabled() {
				continue
			}
			parts = append(parts, helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
		}
		lines = append(lines, strings.Join(parts, helpSepStyle.Render("  ")))
	}
	return strings.Join(lines, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
