package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	AccentColor  = lipgloss.Color("#F59E0B") // Amber

	// Candle colors
	UpColor      = lipgloss.Color("#10B981") // Green
	DownColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	// Timeline state background tints
	MomentumColor      = lipgloss.Color("#1E3A8A") // Deep blue
	ConsolidationColor = lipgloss.Color("#78350F") // Dark amber
	InPositionColor    = lipgloss.Color("#064E3B") // Deep green

	// Chrome
	BorderColor      = lipgloss.Color("#374151")
	FocusBorderColor = lipgloss.Color("#7C3AED")

	// Text colors
	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)
)

// Candle styles
var (
	CandleUpStyle   = lipgloss.NewStyle().Foreground(UpColor)
	CandleDownStyle = lipgloss.NewStyle().Foreground(DownColor)

	MarkerBuyStyle  = lipgloss.NewStyle().Foreground(UpColor).Bold(true)
	MarkerSellStyle = lipgloss.NewStyle().Foreground(DownColor).Bold(true)

	VolumeStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
)

// Axis and label styles
var (
	ChartAxisStyle  = lipgloss.NewStyle().Foreground(TextMutedColor)
	ChartLabelStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
)

// Transport bar styles
var (
	StatusStyle   = lipgloss.NewStyle().Foreground(TextColor)
	PlayingStyle  = lipgloss.NewStyle().Foreground(UpColor).Bold(true)
	PausedStyle   = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
	PnLGainStyle  = lipgloss.NewStyle().Foreground(UpColor)
	PnLLossStyle  = lipgloss.NewStyle().Foreground(DownColor)
	HelpStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	SegmentLegend = lipgloss.NewStyle().Foreground(TextSecondaryColor)
)
