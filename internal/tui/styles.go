package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors that work on light and dark terminals. The brand colors
// are the navy, lime and sky used by the reference cards.
var (
	colorNavy   = lipgloss.AdaptiveColor{Light: "#1D4370", Dark: "#6C9BD2"}
	colorLime   = lipgloss.AdaptiveColor{Light: "#6E9220", Dark: "#94C12E"}
	colorSky    = lipgloss.AdaptiveColor{Light: "#0390BA", Dark: "#04BBF1"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#FF4672"}
	colorAmber  = lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FFA500"}
	colorSubtle = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	colorFg     = lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#FFFDF5"}
	colorDimFg  = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
)

// Header styles.
var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorNavy).
			PaddingRight(2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorNavy).
			Underline(true).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorDimFg).
				Padding(0, 2)
)

// Connectivity pill styles.
var (
	onlinePillStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorGreen).
			Padding(0, 1)

	offlinePillStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorRed).
				Padding(0, 1)

	unknownPillStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorAmber).
				Padding(0, 1)
)

// Footer / help bar styles.
var (
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDimFg).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorNavy)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorDimFg)

	helpSepStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)
)

// General content styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorNavy).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorAmber)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDimFg)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorNavy).
			MarginBottom(1)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorLime).
			Padding(0, 2)
)

// Spinner style.
var spinnerStyle = lipgloss.NewStyle().Foreground(colorSky)

// Notification styles.
var (
	notifSuccessStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true).
				Padding(0, 1)

	notifErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true).
			Padding(0, 1)
)

// stepStyle colors a reference step glyph, falling back to navy.
func stepStyle(hex string) lipgloss.Style {
	if hex == "" {
		return lipgloss.NewStyle().Foreground(colorNavy)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
