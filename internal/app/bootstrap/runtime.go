package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/consultabot/internal/config"
	"github.com/wolfman30/consultabot/internal/session"
	"github.com/wolfman30/consultabot/pkg/logging"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionRegistry picks the session backend named by SESSION_BACKEND.
// The returned close func is never nil.
func BuildSessionRegistry(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (session.Registry, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch backend(cfg.SessionBackend) {
	case BackendMemory:
		logger.Info("using in-memory session registry")
		return session.NewMemoryRegistry(), func() {}, nil
	case BackendRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, nil, fmt.Errorf("bootstrap: redis session backend unavailable at %q", cfg.RedisAddr)
		}
		logger.Info("using redis session registry", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
		return session.NewRedisRegistry(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown session backend %q", cfg.SessionBackend)
	}
}

func backend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendMemory
	}
	return name
}

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecks collects the Ping of every backend that has one, keyed by
// component name. In-memory backends have nothing to check and are skipped.
func HealthChecks(components map[string]any) map[string]func(ctx context.Context) error {
	checks := make(map[string]func(ctx context.Context) error, len(components))
	for name, component := range components {
		if p, ok := component.(Pinger); ok {
			checks[name] = p.Ping
		}
	}
	return checks
}
