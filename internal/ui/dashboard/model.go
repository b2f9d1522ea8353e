package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/flows"
	"github.com/yakhteh/yakhteh/internal/render"
	"github.com/yakhteh/yakhteh/internal/ui/messages"
	"github.com/yakhteh/yakhteh/internal/ui/theme"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Padding(1, 0)
	labelStyle = lipgloss.NewStyle().Foreground(theme.Muted).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(theme.Text)
	okStyle    = lipgloss.NewStyle().Foreground(theme.OK).Bold(true)
	badStyle   = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(theme.Muted)
)

// Fetcher is the part of the API client the dashboard reads from.
type Fetcher interface {
	Me(ctx context.Context) (*api.User, error)
	Health(ctx context.Context) (*api.Health, error)
}

// ProfileCache keeps the last known profile between runs.
type ProfileCache interface {
	LatestProfile(ttl time.Duration) (*api.User, bool, error)
	PutProfile(user *api.User) error
}

// Model is the protected landing view.
type Model struct {
	client  Fetcher
	cache   ProfileCache
	ttl     time.Duration
	log     *slog.Logger
	spinner spinner.Model

	user       *api.User
	health     *api.Health
	online     bool
	loading    bool
	profileErr string
	width      int
	height     int
}

// New creates the dashboard.
func New(client Fetcher, cache ProfileCache, ttl time.Duration, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		client:  client,
		cache:   cache,
		ttl:     ttl,
		log:     logger,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// User returns the profile currently shown.
func (m Model) User() *api.User {
	return m.user
}

// Loading reports whether a refresh is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Init shows the cached profile when it is still within the TTL and starts
// a refresh.
func (m *Model) Init() tea.Cmd {
	if m.cache != nil {
		u, fresh, err := m.cache.LatestProfile(m.ttl)
		switch {
		case err != nil:
			m.log.Warn("reading cached profile", "err", err)
		case u != nil && !fresh:
			m.log.Debug("cached profile expired", "email", u.Email, "ttl", m.ttl)
		case u != nil:
			m.user = u
		}
	}
	return m.Refresh()
}

// Refresh loads the profile and service health concurrently.
func (m *Model) Refresh() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	client, cache, logger := m.client, m.cache, m.log
	load := func() tea.Msg {
		var msg messages.ProfileLoadedMsg
		var g errgroup.Group
		ctx := context.Background()
		g.Go(func() error {
			u, err := client.Me(ctx)
			if err != nil {
				return err
			}
			msg.User = u
			return nil
		})
		g.Go(func() error {
			// Health is informational; its failure must not hide the profile.
			h, err := client.Health(ctx)
			if err == nil {
				msg.Health = h
			}
			return nil
		})
		msg.Err = g.Wait()
		if msg.User != nil && cache != nil {
			if err := cache.PutProfile(msg.User); err != nil {
				logger.Warn("caching profile", "err", err)
			}
		}
		return msg
	}
	return tea.Batch(m.spinner.Tick, load)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ProfileLoadedMsg:
		m.loading = false
		if msg.Health != nil {
			m.health = msg.Health
			m.online = msg.Health.OK()
		}
		if msg.Err != nil {
			m.profileErr = flows.UserMessage(msg.Err, "Could not load profile")
			return m, nil
		}
		m.profileErr = ""
		m.user = msg.User
		return m, nil

	case messages.HealthMsg:
		m.online = msg.Online
		if msg.Health != nil {
			m.health = msg.Health
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Yakhteh Dashboard"))
	sb.WriteString("\n")
	sb.WriteString("Welcome to the dashboard. More features coming soon.")
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	if m.user != nil {
		name := m.user.FullName
		if name == "" {
			name = m.user.Email
		}
		row("Signed in as", name)
		row("Email", m.user.Email)
		if m.user.Role != "" {
			row("Role", m.user.Role)
		}
		status := "active"
		if !m.user.IsActive {
			status = "inactive"
		}
		row("Account", status)
	}

	if m.health != nil {
		state := badStyle.Render("unhealthy")
		if m.online {
			state = okStyle.Render("ok")
		}
		sb.WriteString(labelStyle.Render("Service") + valueStyle.Render(fmt.Sprintf("%s (%s) ", m.health.Service, m.health.Environment)) + state + "\n")
	}

	if m.profileErr != "" {
		sb.WriteString("\n")
		sb.WriteString(badStyle.Render(render.ToText(m.profileErr, max(m.width-4, 20))))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.loading {
		sb.WriteString(m.spinner.View() + " Loading...\n")
	}
	sb.WriteString(hintStyle.Render("r refresh | l logout | q quit"))

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
