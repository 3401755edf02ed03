package admin_test

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/vouchbot/internal/bot/builder/admin"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustmentBuilder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		kind       admin.Adjustment
		previous   int64
		amount     int64
		current    int64
		wantTitle  string
		wantFields []string
	}{
		{
			name:       "add",
			kind:       admin.AdjustAdd,
			previous:   5,
			amount:     10,
			current:    15,
			wantTitle:  "✅ Reputation Added",
			wantFields: []string{"5 ⭐", "+10 ⭐", "15 ⭐"},
		},
		{
			name:       "remove clamps",
			kind:       admin.AdjustRemove,
			previous:   5,
			amount:     10,
			current:    0,
			wantTitle:  "✅ Reputation Removed",
			wantFields: []string{"5 ⭐", "-10 ⭐", "0 ⭐"},
		},
		{
			name:       "set",
			kind:       admin.AdjustSet,
			previous:   20,
			amount:     8,
			current:    8,
			wantTitle:  "✅ Reputation Set",
			wantFields: []string{"20 ⭐", "8 ⭐", "-12 ⭐"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			embed := admin.NewAdjustmentBuilder(tt.kind, 100, tt.previous, tt.amount, tt.current).Build()
			assert.Equal(t, tt.wantTitle, embed.Title)
			require.Len(t, embed.Fields, len(tt.wantFields))
			for i, want := range tt.wantFields {
				assert.Equal(t, want, embed.Fields[i].Value)
			}
		})
	}
}

func TestBuildInvalidAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Amount must be a positive number.", admin.BuildInvalidAmount(admin.AdjustAdd).Description)
	assert.Equal(t, "Amount cannot be negative.", admin.BuildInvalidAmount(admin.AdjustSet).Description)
}

func TestBuildCooldownReset(t *testing.T) {
	t.Parallel()

	reset := admin.BuildCooldownReset(100, true)
	assert.Equal(t, "✅ Cooldown Reset", reset.Title)
	require.Len(t, reset.Fields, 1)
	assert.Equal(t, "Can vouch immediately", reset.Fields[0].Value)

	none := admin.BuildCooldownReset(100, false)
	assert.Equal(t, "<@100> does not have an active cooldown.", none.Description)
}

func TestStatsBuilder(t *testing.T) {
	t.Parallel()

	stats := reputation.Statistics{
		TotalUsers:      3,
		TotalReputation: 1200,
		TotalVouches:    4,
		ActiveCooldowns: 1,
		Top:             &reputation.Standing{UserID: 100, Points: 1000},
	}
	settings := reputation.Settings{VouchRepAmount: 3, VouchCooldown: 10 * time.Minute}
	names := func(uint64) (string, bool) { return "alice", true }

	embed := admin.NewStatsBuilder(stats, settings, names).Build()

	assert.Equal(t, "📊 Reputation System Statistics", embed.Title)
	require.Len(t, embed.Fields, 7)
	assert.Equal(t, "1,200 ⭐", embed.Fields[1].Value)
	assert.Equal(t, "10 minutes", embed.Fields[5].Value)
	assert.Equal(t, "alice (1,000 ⭐)", embed.Fields[6].Value)

	empty := admin.NewStatsBuilder(reputation.Statistics{}, settings, nil).Build()
	assert.Len(t, empty.Fields, 6)
}

func TestBuildClearResult(t *testing.T) {
	t.Parallel()

	update := admin.BuildClearResult(admin.ClearTimedOut, 100).Build()
	require.NotNil(t, update.Embeds)
	require.Len(t, *update.Embeds, 1)
	assert.Equal(t, "⏰ Confirmation Timeout", (*update.Embeds)[0].Title)
	require.NotNil(t, update.Components)
	assert.Empty(t, *update.Components)
}

func TestClearConfirmButtons(t *testing.T) {
	t.Parallel()

	update := admin.NewClearConfirmBuilder(1, 100, 12, 3).Build().Build()
	require.NotNil(t, update.Components)
	require.Len(t, *update.Components, 1)

	buttons := (*update.Components)[0].Components()
	require.Len(t, buttons, 2)

	confirm, ok := buttons[0].(discord.ButtonComponent)
	require.True(t, ok)
	assert.Equal(t, "clearrep:confirm:1:100", confirm.CustomID)
	assert.Equal(t, discord.ButtonStyleDanger, confirm.Style)
}
