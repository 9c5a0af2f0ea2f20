package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#3B82F6")
	ColorAccent  = lipgloss.Color("#F59E0B")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorDanger  = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBorder  = lipgloss.Color("#374151")
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorPrimary)

	SelectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	UnselectedItemStyle = lipgloss.NewStyle()

	FieldLabelStyle = lipgloss.NewStyle().
			Width(30)

	LineLabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(6)

	LineValueStyle = lipgloss.NewStyle().
			Width(14).
			Align(lipgloss.Right)

	ChangedValueStyle = LineValueStyle.
				Bold(true).
				Foreground(ColorAccent)

	RequiredStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	NotRequiredStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)
)
