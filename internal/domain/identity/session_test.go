package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: uuid.New(), Username: "admin"}
	ctx := WithSession(context.Background(), s)

	got, ok := SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)

	_, ok = SessionFromContext(WithSession(context.Background(), nil))
	assert.False(t, ok)
}

func TestSession_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{IssuedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)}

	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Hour)))
	assert.Equal(t, time.Hour, s.RemainingTTL(now))
	assert.Equal(t, time.Duration(0), s.RemainingTTL(now.Add(2*time.Hour)))
}
