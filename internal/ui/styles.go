package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): primary text and command output
// - Accent (soft teal): prompts, command names, candidate highlights
// - Muted (gray): hints, continuation prompts, secondary info

var (
	// Accent style for prompts and command names
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF"))

	// Muted style for hints and secondary info
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// ErrorStyle for rejected lines and parse failures
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)
