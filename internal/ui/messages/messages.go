package messages

import (
	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/flows"
)

// Navigation messages.
type (
	NavigateMsg struct{ Path string }
	LogoutMsg   struct{}
)

// Data messages.
type (
	LoginResultMsg struct {
		Result flows.Result
		Err    error
	}

	RegisterResultMsg struct {
		Result flows.Result
		Err    error
	}

	ProfileLoadedMsg struct {
		User   *api.User
		Health *api.Health
		Err    error
	}

	HealthMsg struct {
		Health *api.Health
		Online bool
		Err    error
	}

	// AlertMsg opens a blocking notice the user must dismiss.
	AlertMsg struct {
		Text    string
		IsError bool
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
