package main

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// SuccessStyle marks checks that hold.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	// ErrorStyle marks checks that fail.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	// TypeStyle is for Type names.
	TypeStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	sectionStyle = TitleStyle.
			MarginTop(1)
)

func check(ok bool) string {
	if ok {
		return SuccessStyle.Render("✔")
	}
	return ErrorStyle.Render("✘")
}
