package render

import "github.com/charmbracelet/lipgloss"

var (
	accent   = lipgloss.Color("#14B8A6") // teal
	yellow   = lipgloss.Color("#F59E0B")
	blue     = lipgloss.Color("#38BDF8")
	slate    = lipgloss.Color("#94A3B8")
	slateDim = lipgloss.Color("#64748B")
	line     = lipgloss.Color("#1F2937")
	ink      = lipgloss.Color("#E5E7EB")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ink).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			BorderForeground(accent).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().Foreground(slate).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(ink)
	starStyle  = lipgloss.NewStyle().Foreground(yellow)
	dirStyle   = lipgloss.NewStyle().Bold(true).Foreground(blue)
	dimStyle   = lipgloss.NewStyle().Foreground(slateDim)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(line).
			Padding(0, 1)
)
