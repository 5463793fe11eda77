package ui

import "github.com/charmbracelet/lipgloss"

// ANSI palette so the dashboard degrades sanely on basic terminals.
const (
	ColorNormal   lipgloss.Color = "2" // green
	ColorWarning  lipgloss.Color = "3" // yellow
	ColorCritical lipgloss.Color = "1" // red
	ColorAccent   lipgloss.Color = "6" // cyan
	ColorMuted    lipgloss.Color = "8" // gray
)

// Severity tier boundaries, inclusive on the upper tier: 60.0 is already a
// warning, 80.0 is already critical. The same rule applies to CPU load,
// memory and temperature readings.
const (
	warnThreshold = 60.0
	critThreshold = 80.0
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle      = lipgloss.NewStyle().Foreground(ColorMuted)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	unavailableStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	errorStyle       = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

// SeverityColor maps a percentage (or a temperature in °C) to its tier
// color.
func SeverityColor(v float64) lipgloss.Color {
	switch {
	case v < warnThreshold:
		return ColorNormal
	case v < critThreshold:
		return ColorWarning
	default:
		return ColorCritical
	}
}

func colorize(v float64, text string) string {
	return lipgloss.NewStyle().Foreground(SeverityColor(v)).Render(text)
}
