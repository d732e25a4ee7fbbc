package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{"configuration", NewConfigurationError("Shopify not configured", nil), http.StatusServiceUnavailable},
		{"validation", NewValidationError("Missing query"), http.StatusBadRequest},
		{"auth", NewAuthError("Not authenticated"), http.StatusUnauthorized},
		{"upstream", NewUpstreamError("Shopify API error", nil), http.StatusInternalServerError},
		{"server", NewServerError("Login failed", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
		})
	}
}

func TestStatusAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	wrapped := fmt.Errorf("login: %w", NewAuthError("Invalid credentials"))

	status, message := StatusAndMessage(wrapped, "fallback")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", message)

	status, message = StatusAndMessage(cause, "Error proxying request")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error proxying request", message)

	serverErr := NewServerError("Login failed", cause)
	assert.ErrorIs(t, serverErr, cause)
	assert.True(t, IsKind(wrapped, KindAuth))
	assert.False(t, IsKind(cause, KindAuth))
}

func TestSessionAccessToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		session *Session
		wantOK  bool
	}{
		{"nil session", nil, false},
		{"no token", &Session{ExpiresAt: now.Add(time.Hour)}, false},
		{"valid token", &Session{CustomerAccessToken: "tok", ExpiresAt: now.Add(time.Hour)}, true},
		{"valid token without shopify expiry", &Session{CustomerAccessToken: "tok"}, true},
		{"expired session", &Session{CustomerAccessToken: "tok", ExpiresAt: now.Add(-time.Second)}, false},
		{"expired token", &Session{CustomerAccessToken: "tok", TokenExpiresAt: now, ExpiresAt: now.Add(time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := tt.session.AccessToken(now)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, "tok", token)
			}
		})
	}
}

func TestSessionClone(t *testing.T) {
	original := &Session{ID: "sid", Customer: &Customer{Email: "a@b.com"}}
	clone := original.Clone()
	clone.Customer.Email = "changed@b.com"

	assert.Equal(t, "a@b.com", original.Customer.Email)
	assert.Nil(t, (*Session)(nil).Clone())
}
