// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for dark terminal backgrounds.
const (
	// ColorPrimary is used for titles.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess marks completed actions.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError marks failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning marks things that need attention.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is used for action and component names.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for the command banner.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for completed actions.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error prefixes.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// ActionStyle is for action names in plans.
	ActionStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
