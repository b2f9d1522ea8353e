package alert

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yakhteh/yakhteh/internal/render"
	"github.com/yakhteh/yakhteh/internal/ui/theme"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 3)

	errorBoxStyle = boxStyle.BorderForeground(theme.Error)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Muted)
)

// Model is a blocking notice. While visible it consumes every key until the
// user dismisses it.
type Model struct {
	text    string
	isError bool
	visible bool
	width   int
	height  int
}

// New creates a hidden alert.
func New() Model {
	return Model{}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Show displays text. A second Show replaces the first.
func (m *Model) Show(text string, isError bool) {
	m.text = text
	m.isError = isError
	m.visible = true
}

// Visible reports whether the alert is on screen.
func (m Model) Visible() bool {
	return m.visible
}

// Text returns the current alert text.
func (m Model) Text() string {
	return m.text
}

// Update dismisses the alert on enter or esc and swallows other keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc", " ":
			m.visible = false
			m.text = ""
		}
	}
	return m, nil
}

// View renders the alert centred in the viewport.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.width - 16
	if width > 60 {
		width = 60
	}
	if width < 20 {
		width = 20
	}

	var sb strings.Builder
	sb.WriteString(render.ToText(m.text, width))
	sb.WriteString("\n\n")
	sb.WriteString(hintStyle.Render("Press Enter to continue"))

	style := boxStyle
	if m.isError {
		style = errorBoxStyle
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, style.Render(sb.String()))
}
