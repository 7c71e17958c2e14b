// Package identity implements operator login, logout and session validation.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/rentdesk/backend/internal/domain/identity"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/auth"
	"github.com/rentdesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	operator *identity.Operator
	tokens   *auth.SessionTokenService
	sessions auth.SessionStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	operator *identity.Operator,
	tokens *auth.SessionTokenService,
	sessions auth.SessionStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		operator: operator,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks the operator credential and starts a session
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := s.log(ctx)
	if input.Username == "" || input.Password == "" {
		return nil, shared.NewValidationError("Username and password are required")
	}

	if !s.operator.Authenticate(input.Username, input.Password) {
		log.Warn("Invalid login attempt",
			zap.String("username", input.Username),
			zap.String("ip", input.IP))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")
	}

	token, session, err := s.tokens.Issue(s.operator.Username)
	if err != nil {
		log.Error("Failed to issue session token", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeInternal, "Failed to start session", err)
	}

	log.Info("Operator logged in",
		zap.String("username", session.Username),
		zap.String("session_id", session.ID.String()))

	return &LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		Session:   ToSessionInfo(session),
	}, nil
}

// Logout revokes the session carried by ctx for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context) error {
	session, ok := identity.SessionFromContext(ctx)
	if !ok {
		return shared.ErrUnauthorized
	}

	if err := s.sessions.Revoke(ctx, session.ID.String(), session.RemainingTTL(s.now())); err != nil {
		s.log(ctx).Error("Failed to revoke session", zap.Error(err))
		return shared.WrapDomainError(shared.CodeInternal, "Failed to end session", err)
	}

	s.log(ctx).Info("Operator logged out", zap.String("session_id", session.ID.String()))
	return nil
}

// Authenticate validates a bearer token and returns its live session.
// A revocation store outage is logged and the token is accepted on its signature alone.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*identity.Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			msg = "Session has expired"
		}
		return nil, shared.WrapDomainError(shared.CodeUnauthorized, msg, err)
	}

	revoked, err := s.sessions.IsRevoked(ctx, session.ID.String())
	if err != nil {
		s.log(ctx).Warn("Session revocation check failed, allowing request",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		return session, nil
	}
	if revoked {
		return nil, shared.WrapDomainError(shared.CodeUnauthorized, "Session has been logged out", auth.ErrTokenRevoked)
	}
	return session, nil
}

// CurrentSession returns the session carried by ctx
func (s *AuthService) CurrentSession(ctx context.Context) (*SessionInfo, error) {
	session, ok := identity.SessionFromContext(ctx)
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	info := ToSessionInfo(session)
	return &info, nil
}

func (s *AuthService) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
