package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Simple palette on standard terminal dark-theme colors.
var (
	ColorPrimary = lipgloss.Color("255") // White
	ColorAccent  = lipgloss.Color("39")  // Blue / Cyan
	ColorSuccess = lipgloss.Color("42")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorWarning = lipgloss.Color("214") // Orange
	ColorDim     = lipgloss.Color("240") // Dimmed text
)

// Shared styles - minimal and clean.
var (
	StyleNormal = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDim)
	StyleBold   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StylePrompt = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	StyleUser      = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleAssistant = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleSystem    = lipgloss.NewStyle().Foreground(ColorDim).Italic(true)

	StyleStatusBar = lipgloss.NewStyle().Foreground(ColorDim)

	StyleHelpKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorDim)
)
