package register

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/flows"
)

type nopRegistrar struct{}

func (nopRegistrar) Register(context.Context, api.RegisterRequest) (flows.Result, error) {
	return flows.Result{}, nil
}

func TestMissingFieldFocusesIt(t *testing.T) {
	m := New(context.Background(), nopRegistrar{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Dr. A")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Submitting() {
		t.Fatal("submitted with empty fields")
	}
	if m.Err() != "Email Address is required" {
		t.Fatalf("err = %q", m.Err())
	}
	if m.focused != fieldEmail {
		t.Fatalf("focused = %v, want email", m.focused)
	}
}

func TestFocusCycles(t *testing.T) {
	m := New(context.Background(), nopRegistrar{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focused != fieldWorkspace {
		t.Fatalf("shift+tab from first = %v", m.focused)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != fieldFullName {
		t.Fatalf("tab from last = %v", m.focused)
	}
}
