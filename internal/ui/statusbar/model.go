package statusbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yakhteh/yakhteh/internal/ui/theme"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(theme.Text)

	brandStyle = lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 1)

	routeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#555555")).
			Foreground(lipgloss.Color("#CCCCCC")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = statusTextStyle.Foreground(theme.Error)

	offlineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 1)
)

// SessionView is read on every render so the bar never shows a stale
// sign-in state.
type SessionView interface {
	Authenticated() bool
}

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	route      string
	session    SessionView
	user       string
	statusText string
	isError    bool
	offline    bool
}

// New creates a new status bar.
func New(session SessionView) Model {
	return Model{session: session}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetRoute sets the current route.
func (m *Model) SetRoute(route string) {
	m.route = route
}

// SetUser sets the display name shown while signed in.
func (m *Model) SetUser(name string) {
	m.user = name
}

// SetStatus sets a temporary status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.statusText = text
	m.isError = isError
}

// SetOffline sets the offline indicator.
func (m *Model) SetOffline(offline bool) {
	m.offline = offline
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	left := brandStyle.Render("Yakhteh")
	if m.route != "" {
		left += routeStyle.Render(m.route)
	}

	var right string
	if m.offline {
		right += offlineStyle.Render("OFFLINE")
	}
	if m.statusText != "" {
		if m.isError {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	switch {
	case m.session != nil && m.session.Authenticated() && m.user != "":
		right += userStyle.Render(m.user)
	case m.session != nil && m.session.Authenticated():
		right += userStyle.Render("signed in")
	default:
		right += statusTextStyle.Render("signed out")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}

// Offline reports whether the offline badge is shown.
func (m Model) Offline() bool {
	return m.offline
}
