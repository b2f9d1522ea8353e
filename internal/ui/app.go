package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yakhteh/yakhteh/internal/auth"
	"github.com/yakhteh/yakhteh/internal/flows"
	"github.com/yakhteh/yakhteh/internal/gate"
	"github.com/yakhteh/yakhteh/internal/monitor"
	"github.com/yakhteh/yakhteh/internal/ui/alert"
	"github.com/yakhteh/yakhteh/internal/ui/dashboard"
	"github.com/yakhteh/yakhteh/internal/ui/login"
	"github.com/yakhteh/yakhteh/internal/ui/messages"
	"github.com/yakhteh/yakhteh/internal/ui/register"
	"github.com/yakhteh/yakhteh/internal/ui/statusbar"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewLogin ViewType = iota
	ViewRegister
	ViewDashboard
)

// Deps are the collaborators the App is wired with. Context must carry the
// session installed with auth.WithSession.
type Deps struct {
	Context    context.Context
	Flows      *flows.Flows
	Dashboard  dashboard.Fetcher
	Profiles   dashboard.ProfileCache
	Monitor    *monitor.Monitor
	ProfileTTL time.Duration
	Logger     *slog.Logger
}

// App is the root Bubble Tea model. It owns routing and applies the access
// gate to every navigation.
type App struct {
	// View state
	activeView ViewType
	route      string
	// returnTo is the protected route the gate bounced us from.
	returnTo string

	// Child models
	loginForm    login.Model
	registerForm register.Model
	dashboard    dashboard.Model
	statusBar    statusbar.Model
	alert        alert.Model

	// Shared state
	deps Deps
	ctx  context.Context
	gate *gate.Gate
	log  *slog.Logger

	// Dimensions
	width  int
	height int

	program monitor.Sender
}

// NewApp creates the root application model. It panics if deps.Context
// carries no session.
func NewApp(deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	session := auth.MustFromContext(deps.Context)
	return &App{
		deps:      deps,
		ctx:       deps.Context,
		gate:      gate.New(session, deps.Logger, gate.DashboardPath),
		statusBar: statusbar.New(session),
		alert:     alert.New(),
		log:       deps.Logger,
	}
}

// SetProgram stores the program reference for the background monitor.
func (a *App) SetProgram(p monitor.Sender) {
	a.program = p
}

// Init starts the application at the root route.
func (a *App) Init() tea.Cmd {
	if a.deps.Monitor != nil && a.program != nil {
		a.deps.Monitor.Start(a.program)
	}
	return a.navigate(gate.RootPath)
}

// Route returns the current route path.
func (a *App) Route() string {
	return a.route
}

// ActiveView returns the view being shown.
func (a *App) ActiveView() ViewType {
	return a.activeView
}

// Alert returns the visible alert text, or "" when none is shown.
func (a *App) Alert() string {
	if !a.alert.Visible() {
		return ""
	}
	return a.alert.Text()
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.statusBar.SetSize(msg.Width)
		a.alert.SetSize(msg.Width, contentHeight)
		switch a.activeView {
		case ViewLogin:
			a.loginForm.SetSize(msg.Width, contentHeight)
		case ViewRegister:
			a.registerForm.SetSize(msg.Width, contentHeight)
		case ViewDashboard:
			a.dashboard.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, Keys.ForceQuit) {
			return a, a.quit()
		}
		// The alert is modal.
		if a.alert.Visible() {
			a.alert, _ = a.alert.Update(msg)
			return a, nil
		}
		if a.activeView == ViewDashboard {
			switch {
			case key.Matches(msg, Keys.Quit):
				return a, a.quit()
			case key.Matches(msg, Keys.Logout):
				return a, a.logout()
			case key.Matches(msg, Keys.Refresh):
				return a, a.dashboard.Refresh()
			}
		}

	case messages.NavigateMsg:
		return a, a.navigate(msg.Path)

	case messages.LogoutMsg:
		return a, a.logout()

	case messages.AlertMsg:
		a.alert.Show(msg.Text, msg.IsError)
		return a, nil

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		return a, nil

	case messages.HealthMsg:
		a.statusBar.SetOffline(!msg.Online)

	case messages.LoginResultMsg:
		if a.activeView != ViewLogin {
			// The form is gone; the flow already updated the session.
			return a, nil
		}
		a.loginForm, _ = a.loginForm.Update(msg)
		if msg.Err != nil {
			a.alert.Show(flows.UserMessage(msg.Err, flows.LoginFailed), true)
			return a, nil
		}
		target := msg.Result.Navigate
		if a.returnTo != "" && a.gate.IsProtected(a.returnTo) {
			target = a.returnTo
		}
		a.returnTo = ""
		a.statusBar.SetStatus("", false)
		return a, a.navigate(target)

	case messages.RegisterResultMsg:
		if a.activeView != ViewRegister {
			return a, nil
		}
		a.registerForm, _ = a.registerForm.Update(msg)
		if msg.Err != nil {
			a.alert.Show(flows.UserMessage(msg.Err, flows.RegistrationFailed), true)
			return a, nil
		}
		cmd := a.navigate(msg.Result.Navigate)
		a.alert.Show(msg.Result.Notice, false)
		return a, cmd

	case messages.ProfileLoadedMsg:
		if msg.User != nil {
			name := msg.User.FullName
			if name == "" {
				name = msg.User.Email
			}
			a.statusBar.SetUser(name)
		}
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewRegister:
		a.registerForm, cmd = a.registerForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// navigate moves to path after consulting the gate. Unknown paths fall back
// to the root route.
func (a *App) navigate(path string) tea.Cmd {
	path = gate.Clean(path)
	switch path {
	case gate.LoginPath, gate.RegisterPath, gate.DashboardPath:
	default:
		path = gate.DashboardPath
	}

	if d := a.gate.Evaluate(path); !d.Allow {
		a.returnTo = d.From
		path = d.Redirect
	}

	a.route = path
	a.statusBar.SetRoute(path)
	contentHeight := a.height - 1

	switch path {
	case gate.LoginPath:
		a.activeView = ViewLogin
		a.loginForm = login.New(a.ctx, a.deps.Flows)
		a.loginForm.SetSize(a.width, contentHeight)
		return nil
	case gate.RegisterPath:
		a.activeView = ViewRegister
		a.registerForm = register.New(a.ctx, a.deps.Flows)
		a.registerForm.SetSize(a.width, contentHeight)
		return nil
	default:
		a.activeView = ViewDashboard
		a.dashboard = dashboard.New(a.deps.Dashboard, a.deps.Profiles, a.deps.ProfileTTL, a.log)
		a.dashboard.SetSize(a.width, contentHeight)
		return a.dashboard.Init()
	}
}

func (a *App) logout() tea.Cmd {
	res, err := a.deps.Flows.Logout(a.ctx)
	if err != nil {
		a.alert.Show(flows.UserMessage(err, "Logout failed"), true)
		return nil
	}
	a.statusBar.SetUser("")
	return a.navigate(res.Navigate)
}

func (a *App) quit() tea.Cmd {
	if a.deps.Monitor != nil {
		a.deps.Monitor.Stop()
	}
	return tea.Quit
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch {
	case a.alert.Visible():
		content = a.alert.View()
	case a.activeView == ViewLogin:
		content = a.loginForm.View()
	case a.activeView == ViewRegister:
		content = a.registerForm.View()
	default:
		content = a.dashboard.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}
