package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/robalyx/vouchbot/internal/redis"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"github.com/robalyx/vouchbot/internal/storage"
	"github.com/robalyx/vouchbot/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errFlaky = errors.New("flaky")

// flakyStore fails the first failures calls of every operation.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	calls    int
	err      error
	saved    *reputation.Snapshot
}

func (s *flakyStore) Load(context.Context) (*reputation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls <= s.failures {
		return nil, s.err
	}
	if s.saved == nil {
		return reputation.NewSnapshot(), nil
	}
	return s.saved, nil
}

func (s *flakyStore) Save(_ context.Context, snapshot *reputation.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls <= s.failures {
		return s.err
	}
	s.saved = snapshot
	return nil
}

func (s *flakyStore) Close() error { return nil }

func fastRetry() storage.RetryOptions {
	return storage.RetryOptions{
		MaxElapsedTime:  time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxRetries:      3,
	}
}

func TestWithRetryRecovers(t *testing.T) {
	t.Parallel()

	flaky := &flakyStore{failures: 2, err: errFlaky}
	store := storage.WithRetry(flaky, "test", fastRetry(), zap.NewNop())

	require.NoError(t, store.Save(t.Context(), storagetest.Sample()))
	assert.Equal(t, 3, flaky.calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	t.Parallel()

	flaky := &flakyStore{failures: 100, err: errFlaky}
	store := storage.WithRetry(flaky, "test", fastRetry(), zap.NewNop())

	err := store.Save(t.Context(), storagetest.Sample())
	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 4, flaky.calls)
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	opts := fastRetry()
	opts.Retryable = func(err error) bool { return !errors.Is(err, errFlaky) }

	flaky := &flakyStore{failures: 100, err: errFlaky}
	store := storage.WithRetry(flaky, "test", opts, zap.NewNop())

	_, err := store.Load(t.Context())
	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, flaky.calls)
}

func TestWithMetricsPassesThrough(t *testing.T) {
	t.Parallel()

	flaky := &flakyStore{}
	store := storage.WithMetrics(flaky, "test")

	require.NoError(t, store.Save(t.Context(), storagetest.Sample()))

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	storagetest.RequireEqual(t, storagetest.Sample(), loaded)
}

func testConfig(t *testing.T) *config.CommonConfig {
	t.Helper()

	dir := t.TempDir()
	return &config.CommonConfig{
		Storage: config.Storage{
			Backend:        config.BackendJSON,
			JSONPath:       filepath.Join(dir, "reputation_data.json"),
			SQLitePath:     filepath.Join(dir, "reputation.db"),
			RedisKeyPrefix: "vouchbot",
		},
		Retry: config.Retry{MaxRetries: 1, Delay: 1, MaxDelay: 2, MaxElapsed: 100},
	}
}

func TestOpenBackends(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Redis = config.Redis{Host: mr.Host(), Port: port, DisableCache: true}

	redisManager := redis.NewManager(&cfg.Redis, zap.NewNop())
	t.Cleanup(redisManager.Close)

	for _, backend := range []string{config.BackendJSON, config.BackendSQLite, config.BackendRedis} {
		t.Run(backend, func(t *testing.T) {
			store, err := storage.OpenBackend(t.Context(), backend, cfg, redisManager, zap.NewNop())
			require.NoError(t, err)
			defer store.Close()

			storagetest.RoundTrip(t, store)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := storage.OpenBackend(t.Context(), "mongo", testConfig(t), nil, zap.NewNop())
	require.ErrorIs(t, err, storage.ErrUnknownBackend)
}
