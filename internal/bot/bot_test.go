package bot

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"github.com/robalyx/vouchbot/internal/status"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type emptyStore struct{}

func (emptyStore) Load(context.Context) (*reputation.Snapshot, error) { return reputation.NewSnapshot(), nil }
func (emptyStore) Save(context.Context, *reputation.Snapshot) error { return nil }
func (emptyStore) Close() error { return nil }

func newTestBot(t *testing.T) *Bot {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ledger := reputation.NewLedger(t.Context(), emptyStore{}, clock, zap.NewNop())
	engine := reputation.NewEngine(ledger, reputation.DefaultSettings(), zap.NewNop())

	cfg := &config.BotConfig{Reputation: config.Reputation{LeaderboardPageSize: 10}}
	return newBot(cfg, engine, clock, zap.NewNop())
}

func TestPresenceWithoutGateway(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	var presence status.Presence = b
	assert.False(t, presence.Online())
	assert.Zero(t, presence.Latency())
	assert.Zero(t, presence.GuildCount())
	assert.Zero(t, presence.MemberCount())
}

func TestDisplayNameUsesSeenUsers(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)
	b.guilds.RememberUser(100, "alice")

	name, ok := b.DisplayName(100)
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	_, ok = b.DisplayName(200)
	assert.False(t, ok)
}
