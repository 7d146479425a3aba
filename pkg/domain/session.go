package domain

import (
	"strings"
	"time"
)

// Session is the signed-in operator and the bearer credential presented on
// every backend call.
type Session struct {
	UserID    string `json:"userId,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"` // epoch seconds, 0 when unknown
}

// IsAuthenticated reports whether a token is held. Expiry is not consulted.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Expired reports whether the session carries an expiry that has passed.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}

// Expiry returns ExpiresAt as a time, zero when unknown.
func (s Session) Expiry() time.Time {
	if s.ExpiresAt <= 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// DisplayName prefers the full name and falls back to the email.
func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name != "" {
		return name
	}
	return s.Email
}
