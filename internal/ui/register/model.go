package register

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/flows"
	"github.com/yakhteh/yakhteh/internal/gate"
	"github.com/yakhteh/yakhteh/internal/ui/messages"
	"github.com/yakhteh/yakhteh/internal/ui/theme"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(16)
	hintStyle  = lipgloss.NewStyle().Foreground(theme.Muted)
	errorStyle = lipgloss.NewStyle().Foreground(theme.Error)
)

type field int

const (
	fieldFullName field = iota
	fieldEmail
	fieldPassword
	fieldWorkspace
	fieldCount
)

var labels = [fieldCount]string{"Full Name", "Email Address", "Password", "Workspace Name"}

// Registrar runs the registration flow.
type Registrar interface {
	Register(ctx context.Context, r api.RegisterRequest) (flows.Result, error)
}

// Model is the account registration form.
type Model struct {
	inputs     [fieldCount]textinput.Model
	spinner    spinner.Model
	focused    field
	flows      Registrar
	ctx        context.Context
	err        string
	submitting bool
	width      int
	height     int
}

// New creates a new registration form.
func New(ctx context.Context, f Registrar) Model {
	var inputs [fieldCount]textinput.Model
	placeholders := [fieldCount]string{"Dr. Jane Doe", "you@clinic.example", "at least 8 characters", "My Clinic"}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 254
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldFullName].Focus()

	return Model{
		inputs:  inputs,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		focused: fieldFullName,
		flows:   f,
		ctx:     ctx,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	fw := w - 22
	if fw > 60 {
		fw = 60
	}
	if fw < 10 {
		fw = 10
	}
	for i := range m.inputs {
		m.inputs[i].Width = fw
	}
}

// Submitting reports whether a registration request is outstanding.
func (m Model) Submitting() bool {
	return m.submitting
}

// Err returns the inline validation error, if any.
func (m Model) Err() string {
	return m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focused = (m.focused + 1) % fieldCount
			return m, m.updateFocus()
		case "shift+tab", "up":
			m.focused = (m.focused + fieldCount - 1) % fieldCount
			return m, m.updateFocus()
		case "ctrl+l":
			return m, func() tea.Msg { return messages.NavigateMsg{Path: gate.LoginPath} }
		case "enter":
			if m.focused != fieldWorkspace {
				m.focused++
				return m, m.updateFocus()
			}
			return m.submit()
		case "ctrl+s":
			return m.submit()
		}

	case messages.RegisterResultMsg:
		m.submitting = false
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	req := api.RegisterRequest{
		FullName:      strings.TrimSpace(m.inputs[fieldFullName].Value()),
		Email:         strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password:      m.inputs[fieldPassword].Value(),
		WorkspaceName: strings.TrimSpace(m.inputs[fieldWorkspace].Value()),
	}
	for i, v := range []string{req.FullName, req.Email, req.Password, req.WorkspaceName} {
		if v == "" {
			m.err = labels[i] + " is required"
			m.focused = field(i)
			return m, m.updateFocus()
		}
	}

	m.submitting = true
	m.err = ""
	f, ctx := m.flows, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := f.Register(ctx, req)
		return messages.RegisterResultMsg{Result: res, Err: err}
	})
}

func (m *Model) updateFocus() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m.inputs[m.focused].Focus()
}

// View renders the registration form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Register"))
	sb.WriteString("\n\n")

	for i := range m.inputs {
		sb.WriteString(labelStyle.Render(labels[i]) + " " + m.inputs[i].View())
		sb.WriteString("\n\n")
	}

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n")
	}

	if m.submitting {
		sb.WriteString(m.spinner.View() + " Registering...")
	} else {
		sb.WriteString(hintStyle.Render("Tab to switch fields | Enter on last field or Ctrl+S to register | Ctrl+L to sign in"))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
