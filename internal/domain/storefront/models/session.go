package models

import "time"

// Session is the server-held state behind a session cookie. It is serialised
// only into the session store, never into a response body.
type Session struct {
	ID                  string    `json:"id"`
	CustomerAccessToken string    `json:"customerAccessToken,omitempty"`
	TokenExpiresAt      time.Time `json:"tokenExpiresAt,omitempty"`
	Customer            *Customer `json:"customer,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	ExpiresAt           time.Time `json:"expiresAt"`
}

// Expired reports whether the session outlived its TTL
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// AccessToken returns the customer token if the session is alive and the
// token has not passed the expiry Shopify issued it with.
func (s *Session) AccessToken(now time.Time) (string, bool) {
	if s == nil || s.CustomerAccessToken == "" || s.Expired(now) {
		return "", false
	}
	if !s.TokenExpiresAt.IsZero() && !now.Before(s.TokenExpiresAt) {
		return "", false
	}
	return s.CustomerAccessToken, true
}

// Clone returns a deep copy so stores never share mutable state with callers
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Customer != nil {
		customer := *s.Customer
		clone.Customer = &customer
	}
	return &clone
}
