// Package theme holds the palette shared by every view.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	Accent = lipgloss.Color("#2BB3A3")
	Text   = lipgloss.Color("#FFFFFF")
	Muted  = lipgloss.Color("#828282")
	Error  = lipgloss.Color("#FF5555")
	OK     = lipgloss.Color("#32CD32")
)
