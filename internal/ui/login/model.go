package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yakhteh/yakhteh/internal/flows"
	"github.com/yakhteh/yakhteh/internal/gate"
	"github.com/yakhteh/yakhteh/internal/ui/messages"
	"github.com/yakhteh/yakhteh/internal/ui/theme"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	labelStyle   = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(theme.Error)
	titleStyle   = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Padding(1, 0)
)

// Authenticator runs the login flow.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (flows.Result, error)
}

// Model is the sign-in form.
type Model struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	spinner       spinner.Model
	focusIndex    int
	err           string
	submitting    bool
	flows         Authenticator
	ctx           context.Context
	width         int
	height        int
}

// New creates a new login form. Submissions run with ctx, which must carry
// the session the flow signs in.
func New(ctx context.Context, f Authenticator) Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "you@clinic.example"
	emailInput.Focus()
	emailInput.CharLimit = 254
	emailInput.Width = 36

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.Width = 36

	return Model{
		emailInput:    emailInput,
		passwordInput: passwordInput,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		flows:         f,
		ctx:           ctx,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Submitting reports whether a login request is outstanding.
func (m Model) Submitting() bool {
	return m.submitting
}

// Email returns the typed email address.
func (m Model) Email() string {
	return m.emailInput.Value()
}

// Err returns the inline validation error, if any.
func (m Model) Err() string {
	return m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.emailInput.Blur()
				m.passwordInput.Focus()
			} else {
				m.focusIndex = 0
				m.passwordInput.Blur()
				m.emailInput.Focus()
			}
			return m, nil
		case "ctrl+r":
			if m.submitting {
				return m, nil
			}
			return m, navigate(gate.RegisterPath)
		case "enter":
			if m.submitting {
				return m, nil
			}
			email := strings.TrimSpace(m.emailInput.Value())
			password := m.passwordInput.Value()
			if email == "" || password == "" {
				m.err = "Email and password required"
				return m, nil
			}
			m.submitting = true
			m.err = ""
			f, ctx := m.flows, m.ctx
			return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
				res, err := f.Login(ctx, email, password)
				return messages.LoginResultMsg{Result: res, Err: err}
			})
		}

	case messages.LoginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.passwordInput.Reset()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return messages.NavigateMsg{Path: path} }
}

// View renders the login form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Sign in to Yakhteh"))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Email Address:"))
	sb.WriteString("\n")
	sb.WriteString(m.emailInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Password:"))
	sb.WriteString("\n")
	sb.WriteString(m.passwordInput.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n\n")
	}

	if m.submitting {
		sb.WriteString(m.spinner.View() + " Signing in...")
	} else {
		sb.WriteString(focusedStyle.Render("Enter") + " to sign in, " +
			focusedStyle.Render("Ctrl+R") + " to register, " +
			focusedStyle.Render("Ctrl+C") + " to quit")
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
