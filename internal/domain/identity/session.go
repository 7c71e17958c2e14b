// Package identity holds the operator credential and the authenticated-session model.
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a server-validated login session. It travels with each request in its context.
type Session struct {
	ID        uuid.UUID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session has passed its expiry at the given instant
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// RemainingTTL returns how long the session stays valid, never negative
func (s *Session) RemainingTTL(now time.Time) time.Duration {
	d := s.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

type sessionContextKey struct{}

// WithSession returns a copy of ctx carrying the session
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session stored in ctx, if any
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok && s != nil
}
