package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentdesk/backend/internal/domain/identity"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/logger"
	"github.com/rentdesk/backend/internal/interfaces/http/dto"
)

const (
	// SessionKey is the gin context key holding the authenticated *identity.Session
	SessionKey = "session"
	// AuthorizationHeader is the header carrying the bearer token
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the scheme prefix of the authorization header
	BearerPrefix = "Bearer "
)

// SessionAuthenticator validates a bearer token and returns its live session
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.Session, error)
}

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	Authenticator SessionAuthenticator
	// SkipPaths are full request paths that do not require a session
	SkipPaths []string
}

// Session returns a middleware that requires a valid session on every request
func Session(authenticator SessionAuthenticator) gin.HandlerFunc {
	return SessionWithConfig(SessionConfig{Authenticator: authenticator})
}

// SessionWithConfig returns a session middleware with custom configuration
func SessionWithConfig(cfg SessionConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, ok := extractBearerToken(c.GetHeader(AuthorizationHeader))
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		session, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			msg := "Invalid token"
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.CodeUnauthorized {
				msg = domainErr.Message
			}
			abortUnauthorized(c, msg)
			return
		}

		ctx := identity.WithSession(c.Request.Context(), session)
		ctx, reqLogger := logger.WithSessionID(ctx, logger.GetGinLogger(c), session.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(SessionKey, session)
		c.Set(logger.GinLoggerKey, reqLogger)

		c.Next()
	}
}

// GetSession returns the session stored by the session middleware
func GetSession(c *gin.Context) (*identity.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*identity.Session)
	return s, ok && s != nil
}

func extractBearerToken(header string) (string, bool) {
	if len(header) <= len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="rentdesk"`)
	c.Set(ErrorCodeKey, dto.ErrCodeUnauthorized)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
