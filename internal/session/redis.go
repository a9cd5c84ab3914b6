package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTTL bounds how long an idle session survives in Redis.
const DefaultTTL = 24 * time.Hour

// createdField marks a session hash that exists but has no collected fields yet.
const createdField = "created_at"

// RedisRegistry stores each session as a Redis hash so collected fields
// survive process restarts until the TTL lapses.
type RedisRegistry struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

var _ Registry = (*RedisRegistry)(nil)

// NewRedisRegistry builds a registry backed by the given client.
func NewRedisRegistry(client *redis.Client, ttl time.Duration) *RedisRegistry {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRegistry{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("consultabot.internal.session"),
	}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// GetOrCreate loads the session hash, creating it on first contact.
func (r *RedisRegistry) GetOrCreate(ctx context.Context, userID string) (*Session, error) {
	ctx, span := r.tracer.Start(ctx, "session.get_or_create")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}

	key := sessionKey(userID)
	values, err := r.redis.HGetAll(ctx, key).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load %s: %w", userID, err)
	}

	if len(values) == 0 {
		pipe := r.redis.TxPipeline()
		pipe.HSetNX(ctx, key, createdField, time.Now().UTC().Format(time.RFC3339))
		pipe.Expire(ctx, key, r.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("session: failed to create %s: %w", userID, err)
		}
		return &Session{UserID: userID}, nil
	}

	return &Session{
		UserID:     userID,
		Name:       values[string(FieldName)],
		NationalID: values[string(FieldNationalID)],
		Email:      values[string(FieldEmail)],
	}, nil
}

// Ping reports whether Redis is reachable.
func (r *RedisRegistry) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx).Err()
}

// SetField writes one field and refreshes the TTL.
func (r *RedisRegistry) SetField(ctx context.Context, userID string, field Field, value string) error {
	ctx, span := r.tracer.Start(ctx, "session.set_field")
	defer span.End()

	if err := checkArgs(userID, field); err != nil {
		return err
	}

	key := sessionKey(userID)
	pipe := r.redis.TxPipeline()
	pipe.HSet(ctx, key, string(field), value)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist %s for %s: %w", field, userID, err)
	}
	return nil
}
