package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/ui/messages"
)

// HealthChecker is the part of the API client the monitor polls.
type HealthChecker interface {
	Health(ctx context.Context) (*api.Health, error)
}

// Sender delivers messages to the running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Monitor polls the service health endpoint and reports online/offline
// transitions. It never validates the session.
type Monitor struct {
	client   HealthChecker
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	sender  Sender
	started bool
	online  *bool
	stopCh  chan struct{}
}

// New creates a new background monitor. A non-positive timeout falls back
// to api.DefaultTimeout.
func New(client HealthChecker, interval, timeout time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = api.DefaultTimeout
	}
	return &Monitor{
		client:   client,
		interval: interval,
		timeout:  timeout,
		log:      logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background polling loop. Later calls are ignored.
func (m *Monitor) Start(sender Sender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.interval <= 0 {
		return
	}
	select {
	case <-m.stopCh:
		return
	default:
	}
	m.started = true
	m.sender = sender
	go m.loop()
}

// Stop halts the background polling. It does not wait for an in-flight
// poll, since that poll may be blocked delivering to the caller's loop.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.stopCh:
	default:
		close(m.stopCh)
	}
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Poll()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Poll()
		}
	}
}

// Poll runs one health check and reports it when the online state changes.
func (m *Monitor) Poll() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	h, err := m.client.Health(ctx)
	online := err == nil && h.OK()

	m.mu.Lock()
	changed := m.online == nil || *m.online != online
	m.online = &online
	sender := m.sender
	m.mu.Unlock()

	if !changed {
		return
	}
	if online {
		m.log.Info("service online", "service", h.Service, "environment", h.Environment)
	} else {
		m.log.Warn("service offline", "err", err)
	}
	if sender == nil {
		return
	}
	select {
	case <-m.stopCh:
	default:
		sender.Send(messages.HealthMsg{Health: h, Online: online, Err: err})
	}
}
