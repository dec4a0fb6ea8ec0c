// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal
	colorError     = lipgloss.Color("196") // Bright red
	colorWarning   = lipgloss.Color("220") // Yellow
	colorSuccess   = lipgloss.Color("40")  // Green
)

var (
	// Countdown line, one per urgency band.
	urgentStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	normalStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)

	// Picker
	titleStyle        = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	helpStyle         = lipgloss.NewStyle().Foreground(colorSubtle)
	errorStyle        = lipgloss.NewStyle().Foreground(colorError)
)

func styleFor(u Urgency) lipgloss.Style {
	switch u {
	case UrgencyUrgent:
		return urgentStyle
	case UrgencyWarning:
		return warningStyle
	default:
		return normalStyle
	}
}
