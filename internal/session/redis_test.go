package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisRegistry_GetOrCreateNewSession(t *testing.T) {
	client, mr := setupTestRedis(t)
	reg := NewRedisRegistry(client, time.Hour)
	ctx := context.Background()

	sess, err := reg.GetOrCreate(ctx, "+5511987654321")
	require.NoError(t, err)
	assert.Equal(t, "+5511987654321", sess.UserID)
	assert.False(t, sess.HasName())
	assert.False(t, sess.HasNationalID())

	assert.True(t, mr.Exists("session:+5511987654321"))
	assert.Equal(t, time.Hour, mr.TTL("session:+5511987654321"))
}

func TestRedisRegistry_FieldsSurviveNewRegistry(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	id := "+5511987654321"

	first := NewRedisRegistry(client, time.Hour)
	_, err := first.GetOrCreate(ctx, id)
	require.NoError(t, err)
	require.NoError(t, first.SetField(ctx, id, FieldName, "Maria Silva"))
	require.NoError(t, first.SetField(ctx, id, FieldNationalID, "12345678901"))

	second := NewRedisRegistry(client, time.Hour)
	sess, err := second.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", sess.Name)
	assert.Equal(t, "12345678901", sess.NationalID)
	assert.Empty(t, sess.Email)
}

func TestRedisRegistry_SessionExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	reg := NewRedisRegistry(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, reg.SetField(ctx, "user", FieldName, "Ana"))
	mr.FastForward(2 * time.Minute)

	sess, err := reg.GetOrCreate(ctx, "user")
	require.NoError(t, err)
	assert.False(t, sess.HasName())
}

func TestRedisRegistry_Errors(t *testing.T) {
	client, _ := setupTestRedis(t)
	reg := NewRedisRegistry(client, 0)
	ctx := context.Background()

	_, err := reg.GetOrCreate(ctx, "")
	assert.ErrorIs(t, err, ErrMissingUserID)
	assert.ErrorIs(t, reg.SetField(ctx, "user", Field("phone"), "x"), ErrUnknownField)
}

func TestRedisRegistry_UnavailableServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	reg := NewRedisRegistry(client, time.Hour)
	_, err = reg.GetOrCreate(context.Background(), "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session: failed to load")

	err = reg.SetField(context.Background(), "user", FieldName, "Ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session: failed to persist")
}

func TestRedisRegistry_Ping(t *testing.T) {
	client, mr := setupTestRedis(t)
	reg := NewRedisRegistry(client, time.Hour)

	require.NoError(t, reg.Ping(context.Background()))

	mr.SetError("ERR server unavailable")
	assert.Error(t, reg.Ping(context.Background()))
}

func TestNewRedisRegistry_NilClientPanics(t *testing.T) {
	assert.Panics(t, func() { NewRedisRegistry(nil, time.Hour) })
}
