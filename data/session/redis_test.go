package session

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSession(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisSession(client, 30*time.Minute)
	ctx := context.Background()

	_, err := s.GetSession(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetSession(ctx, 42, model.Session{State: model.ExpectingDebt}))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:42"))

	got, err := s.GetSession(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, model.ExpectingDebt, got.State)

	_, err = s.GetSession(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteSession(ctx, 42))
	_, err = s.GetSession(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
