package main

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#8B5CF6")
	accentColor  = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#64748B")
	textPrimary  = lipgloss.Color("#F8FAFC")
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	continuationStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	successStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Background(errorColor).
			Foreground(textPrimary).
			Bold(true).
			Padding(0, 1)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(errorColor)

	offsetStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)
