package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/identity"
)

// LoginInput contains the input for operator login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP, logged only
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	Session   SessionInfo
}

// SessionInfo describes an authenticated session
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToSessionInfo converts a domain session to its response form
func ToSessionInfo(s *identity.Session) SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		Username:  s.Username,
		IssuedAt:  s.IssuedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
