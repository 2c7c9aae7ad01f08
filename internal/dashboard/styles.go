package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for metrics and model state
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accents
	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorSurfaceBg).
				Bold(true)

	StatusRunningStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy)

	StatusStoppedStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	StatusUnknownStyle = lipgloss.NewStyle().
				Foreground(ColorWarning)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorGraph)

	StalePaneStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Status indicator characters
const (
	IndicatorRunning = "◉"
	IndicatorStopped = "◌"
	IndicatorUnknown = "◔"
)

// MetricColor returns the appropriate color for a percentage-based
// metric: green below 70%, yellow 70-90%, red above 90%.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyle returns a style with the appropriate foreground color for the metric.
func MetricStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColor(percent))
}

// ProgressBar renders a bracketless progress bar with threshold-based coloring.
func ProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("▰")
		} else {
			bar.WriteString("▱")
		}
	}

	return lipgloss.NewStyle().Foreground(MetricColor(percent)).Render(bar.String())
}

// SectionHeader renders a section header with the title on the left and
// value on the right:  ╭─ Title ───────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		TitleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fillWidth)+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders,
// padded to width:  │ content                                   │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	innerWidth := width - 4
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
