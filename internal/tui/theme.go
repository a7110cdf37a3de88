package tui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Color Palette
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere else.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorTeal   = lipgloss.Color("#39c5bb")
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")
	colorPurple = lipgloss.Color("#bc8cff")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#1f6feb")
)

// Header bar and tabs
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorTeal)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(colorBg).
			Background(colorTeal).
			Bold(true).
			Padding(0, 1)

	tabFailedStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Padding(0, 1)
)

// Panels and cards
var (
	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			Bold(true)

	kpiCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDivider).
			Padding(0, 1)

	kpiLabelStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	kpiValueStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Lists
var (
	rowStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	rowSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true).
				Padding(0, 1)

	columnHeadStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(2, 4)
)

// Fallback and narrow-screen cards
var (
	fallbackCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorRed).
				Foreground(colorText).
				Padding(1, 3)

	compactCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorTeal).
				Foreground(colorText).
				Padding(1, 2)

	fallbackTitleStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)
)

// Speed-dial menu
var (
	dialBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTeal).
			Padding(0, 1)

	dialItemStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dialSelectedStyle = lipgloss.NewStyle().
				Foreground(colorBg).
				Background(colorTeal).
				Bold(true)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// stageStyle colors a pipeline stage consistently across views.
func stageStyle(stage string) lipgloss.Style {
	switch stage {
	case "lead":
		return lipgloss.NewStyle().Foreground(colorTextDim)
	case "qualified":
		return lipgloss.NewStyle().Foreground(colorBlue)
	case "proposal":
		return lipgloss.NewStyle().Foreground(colorPurple)
	case "negotiation":
		return lipgloss.NewStyle().Foreground(colorYellow)
	case "won":
		return lipgloss.NewStyle().Foreground(colorGreen)
	case "lost":
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorText)
	}
}
