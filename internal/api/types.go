package api

import (
	"encoding/json"
	"strconv"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login success body. The backend has returned the
// token under either name; both are kept.
type LoginResponse struct {
	AccessToken *string `json:"access_token"`
	Token       *string `json:"token"`
	TokenType   string  `json:"token_type,omitempty"`
}

// BearerToken returns the first non-empty token field, access_token first.
// An empty access_token is treated as absent, so a non-empty token wins.
func (r LoginResponse) BearerToken() (string, bool) {
	for _, v := range []*string{r.AccessToken, r.Token} {
		if v != nil && *v != "" {
			return *v, true
		}
	}
	return "", false
}

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	WorkspaceName string `json:"workspace_name"`
}

// User is the public profile returned by /auth/me.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Health is the service health document.
type Health struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Environment string `json:"environment"`
}

// OK reports whether the service considers itself healthy.
func (h *Health) OK() bool {
	return h != nil && (h.Status == "ok" || h.Status == "healthy")
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	// Detail is the server's "detail" message, when it sent a string one.
	Detail string
	Body   []byte
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status, Body: body}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			e.Detail = s
		}
	}
	return e
}

func (e *HTTPError) Error() string {
	return "request failed with status code " + strconv.Itoa(e.StatusCode)
}
