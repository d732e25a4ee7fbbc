package config

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionLifetime is how long a session and its cookie stay valid
const SessionLifetime = 7 * 24 * time.Hour

const defaultSessionSecret = "change-this-session-secret"

var (
	// SessionCookieName is the name of the session cookie
	// Default to "storefront_session" if not set in environment
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "storefront_session")

	sessionSecretMu sync.RWMutex
	// SessionSecret signs the session cookie
	SessionSecret = []byte(GetEnvOrDefault("SESSION_SECRET", defaultSessionSecret))
)

// GetSessionCookieName returns the configured session cookie name
func GetSessionCookieName() string {
	return SessionCookieName
}

// SetSessionCookieName temporarily changes the session cookie name and returns a function to restore it
// This is primarily used for testing
func SetSessionCookieName(name string) func() {
	previous := SessionCookieName
	SessionCookieName = name

	return func() {
		SessionCookieName = previous
	}
}

// GetSessionSecret returns the current session secret in a thread-safe manner
func GetSessionSecret() []byte {
	sessionSecretMu.RLock()
	defer sessionSecretMu.RUnlock()
	return SessionSecret
}

// SetSessionSecret temporarily changes the session secret and returns a function to restore it
// This is primarily used for testing
func SetSessionSecret(secret []byte) func() {
	sessionSecretMu.Lock()
	previous := SessionSecret
	SessionSecret = secret
	sessionSecretMu.Unlock()

	return func() {
		sessionSecretMu.Lock()
		SessionSecret = previous
		sessionSecretMu.Unlock()
	}
}

// reloadSessionSettings re-reads the session variables after .env loading
func reloadSessionSettings() {
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "storefront_session")

	sessionSecretMu.Lock()
	SessionSecret = []byte(GetEnvOrDefault("SESSION_SECRET", defaultSessionSecret))
	sessionSecretMu.Unlock()
}

// WarnInsecureSessionSecret logs when production runs with the built-in secret
func WarnInsecureSessionSecret() {
	if string(GetSessionSecret()) == defaultSessionSecret && IsProduction() {
		log.Warn().Msg("SESSION_SECRET is not set - session cookies are signed with the default secret")
	}
}
