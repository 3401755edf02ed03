package redis_test

import (
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/storage/redis"
	"github.com/robalyx/vouchbot/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*miniredis.Miniredis, rueidis.Client) {
	t.Helper()

	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()
	_, client := setupTest(t)

	storagetest.RoundTrip(t, redis.New(client, "vouchbot", zap.NewNop()))
}

func TestStoreKeyLayout(t *testing.T) {
	t.Parallel()
	mr, client := setupTest(t)

	store := redis.New(client, "test", zap.NewNop())
	require.NoError(t, store.Save(t.Context(), storagetest.Sample()))

	order, err := mr.List("{test}:order")
	require.NoError(t, err)
	assert.Equal(t, []string{"300", "100", "200"}, order)

	assert.Equal(t, "12", mr.HGet("{test}:balances", "300"))
	assert.Equal(t, "0", mr.HGet("{test}:balances", "100"))
	assert.NotEmpty(t, mr.HGet("{test}:histories", "300"))
	assert.NotEmpty(t, mr.HGet("{test}:cooldowns", "100"))

	version, err := mr.Get("{test}:version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestStoreKeysShareHashSlot(t *testing.T) {
	t.Parallel()
	mr, client := setupTest(t)

	store := redis.New(client, "vouchbot", zap.NewNop())
	require.NoError(t, store.Save(t.Context(), storagetest.Sample()))

	keys := mr.Keys()
	require.Len(t, keys, 5)
	for _, key := range keys {
		assert.True(t, strings.HasPrefix(key, "{vouchbot}:"), key)
	}

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	storagetest.RequireEqual(t, storagetest.Sample(), loaded)
}

func TestStorePrefixesAreIsolated(t *testing.T) {
	t.Parallel()
	_, client := setupTest(t)

	first := redis.New(client, "first", zap.NewNop())
	second := redis.New(client, "second", zap.NewNop())

	require.NoError(t, first.Save(t.Context(), storagetest.Sample()))

	loaded, err := second.Load(t.Context())
	require.NoError(t, err)
	storagetest.RequireEqual(t, reputation.NewSnapshot(), loaded)
}

func TestStoreRejectsNewerVersion(t *testing.T) {
	t.Parallel()
	mr, client := setupTest(t)

	require.NoError(t, mr.Set("{vouchbot}:version", "42"))

	_, err := redis.New(client, "vouchbot", zap.NewNop()).Load(t.Context())
	require.ErrorIs(t, err, redis.ErrUnsupportedVersion)
}
