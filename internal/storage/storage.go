// Package storage opens the configured reputation.Store backend and wraps it
// with retries and instrumentation.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/vouchbot/internal/redis"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"github.com/robalyx/vouchbot/internal/storage/jsonfile"
	"github.com/robalyx/vouchbot/internal/storage/postgres"
	redisstore "github.com/robalyx/vouchbot/internal/storage/redis"
	"github.com/robalyx/vouchbot/internal/storage/sqlite"
	"go.uber.org/zap"
)

// ErrUnknownBackend indicates a backend name that has no implementation.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Open opens the backend configured in the common config.
func Open(
	ctx context.Context, cfg *config.CommonConfig, redisManager *redis.Manager, logger *zap.Logger,
) (reputation.Store, error) {
	return OpenBackend(ctx, cfg.Storage.Backend, cfg, redisManager, logger)
}

// OpenBackend opens the named backend using the connection settings of cfg.
// The returned store retries transient failures and reports metrics.
func OpenBackend(
	ctx context.Context, backend string, cfg *config.CommonConfig, redisManager *redis.Manager, logger *zap.Logger,
) (reputation.Store, error) {
	opts := RetryOptionsFromConfig(&cfg.Retry)

	var (
		store reputation.Store
		err   error
	)

	switch backend {
	case config.BackendJSON:
		store = jsonfile.New(cfg.Storage.JSONPath, logger)
		opts.Retryable = func(err error) bool {
			return !errors.Is(err, jsonfile.ErrUnsupportedVersion)
		}

	case config.BackendSQLite:
		store, err = sqlite.Open(cfg.Storage.SQLitePath, logger)
		opts.Retryable = func(err error) bool {
			return !errors.Is(err, sqlite.ErrClosed)
		}

	case config.BackendRedis:
		if redisManager == nil {
			return nil, fmt.Errorf("%w: redis backend requires a redis manager", ErrUnknownBackend)
		}

		client, clientErr := redisManager.GetClient(cfg.Storage.RedisDB)
		if clientErr != nil {
			return nil, clientErr
		}

		store = redisstore.New(client, cfg.Storage.RedisKeyPrefix, logger)
		opts.Retryable = func(err error) bool {
			return !errors.Is(err, redisstore.ErrUnsupportedVersion)
		}

	case config.BackendPostgres:
		store, err = postgres.Open(ctx, &cfg.PostgreSQL, logger)
		opts.Retryable = postgres.IsRetryableError

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", backend, err)
	}

	logger.Info("Opened reputation store", zap.String("backend", backend))

	return WithMetrics(WithRetry(store, backend, opts, logger), backend), nil
}
