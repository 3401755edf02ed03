package vouch_test

import (
	"testing"
	"time"

	"github.com/robalyx/vouchbot/internal/bot/builder/vouch"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = vouch.Participant{ID: 100, Name: "alice", AvatarURL: "https://cdn.example/alice.png"}
	bob   = vouch.Participant{ID: 200, Name: "bob"}
	now   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func TestBuildSuccess(t *testing.T) {
	t.Parallel()

	result := reputation.VouchResult{
		Status: reputation.VouchAccepted,
		Record: reputation.VouchRecord{
			Voucher:   200,
			Reason:    "great trade",
			Timestamp: now,
			RepAmount: 3,
		},
		Balance: 15,
	}

	embed := vouch.NewBuilder(bob, alice, "  great trade  ", reputation.DefaultSettings(), result).Build()

	assert.Equal(t, "✅ Vouch Successful", embed.Title)
	assert.Equal(t, "<@200> vouched for <@100>", embed.Description)
	assert.Equal(t, constants.ColorGreen, embed.Color)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "great trade", embed.Fields[0].Value)
	assert.Equal(t, "+3 ⭐", embed.Fields[1].Value)
	assert.Equal(t, "15 ⭐", embed.Fields[2].Value)
	assert.Equal(t, "Available in 10 minutes", embed.Fields[3].Value)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, alice.AvatarURL, embed.Thumbnail.URL)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Vouched by bob", embed.Footer.Text)
}

func TestBuildRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		result    reputation.VouchResult
		wantTitle string
		wantColor int
	}{
		{
			name:      "invalid reason",
			result:    reputation.VouchResult{Status: reputation.VouchInvalidReason},
			wantTitle: "⚠️ Vouch Reason Required",
			wantColor: constants.ColorRed,
		},
		{
			name:      "self vouch",
			result:    reputation.VouchResult{Status: reputation.VouchSelf},
			wantTitle: "❌ Cannot Vouch Yourself",
			wantColor: constants.ColorRed,
		},
		{
			name:      "bot target",
			result:    reputation.VouchResult{Status: reputation.VouchBotTarget},
			wantTitle: "❌ Cannot Vouch Bots",
			wantColor: constants.ColorRed,
		},
		{
			name:      "cooldown",
			result:    reputation.VouchResult{Status: reputation.VouchCooldown, Remaining: 9*time.Minute + 30*time.Second},
			wantTitle: "⏰ Vouch Cooldown Active",
			wantColor: constants.ColorOrange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			embed := vouch.NewBuilder(bob, alice, "x", reputation.DefaultSettings(), tt.result).Build()
			assert.Equal(t, tt.wantTitle, embed.Title)
			assert.Equal(t, tt.wantColor, embed.Color)
		})
	}
}

func TestBuildCooldownShowsRemaining(t *testing.T) {
	t.Parallel()

	result := reputation.VouchResult{Status: reputation.VouchCooldown, Remaining: 9*time.Minute + 30*time.Second}
	embed := vouch.NewBuilder(bob, alice, "great trade", reputation.DefaultSettings(), result).Build()

	assert.Equal(t, "You can vouch again in **9m 30s**", embed.Description)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "You can vouch once every 10 minutes", embed.Fields[0].Value)
}

func TestBuildNotification(t *testing.T) {
	t.Parallel()

	result := reputation.VouchResult{
		Status:  reputation.VouchAccepted,
		Record:  reputation.VouchRecord{Voucher: 200, Reason: "fast delivery", Timestamp: now, RepAmount: 3},
		Balance: 3,
	}
	builder := vouch.NewBuilder(bob, alice, "fast delivery", reputation.DefaultSettings(), result)

	embed := builder.BuildNotification("Traders Hub")
	assert.Equal(t, "**bob** vouched for you in **Traders Hub**", embed.Description)
	require.NotNil(t, embed.Timestamp)
	assert.True(t, now.Equal(*embed.Timestamp))

	embed = builder.BuildNotification("")
	assert.Equal(t, "**bob** vouched for you in **a server**", embed.Description)
}

func TestCooldownBuilder(t *testing.T) {
	t.Parallel()

	ready := vouch.NewCooldownBuilder(bob, 0, false, 10*time.Minute).Build()
	assert.Equal(t, "✅ You can vouch now!", ready.Description)

	waiting := vouch.NewCooldownBuilder(bob, 45*time.Second, true, 10*time.Minute).Build()
	assert.Equal(t, "You can vouch again in **45s**", waiting.Description)
	require.Len(t, waiting.Fields, 1)
	assert.Equal(t, "10 minutes", waiting.Fields[0].Value)
}

func TestRankBuilder(t *testing.T) {
	t.Parallel()

	recent := []reputation.VouchRecord{
		{Voucher: 200, Reason: "second", Timestamp: now.Add(time.Minute), RepAmount: 3},
		{Voucher: 300, Reason: "first", Timestamp: now, RepAmount: 3},
	}

	embed := vouch.NewRankBuilder(alice, bob, 6, 2, true, 7, recent).Build()
	assert.Equal(t, "alice's Reputation", embed.Title)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "⭐ 6", embed.Fields[0].Value)
	assert.Equal(t, "#2", embed.Fields[1].Value)
	assert.Equal(t, "7", embed.Fields[2].Value)
	assert.Equal(t, "Recent Vouches (Last 5)", embed.Fields[3].Name)
	assert.Equal(t, "<@200>: second\n*2025-03-01 12:01*\n\n<@300>: first\n*2025-03-01 12:00*", embed.Fields[3].Value)

	unranked := vouch.NewRankBuilder(bob, bob, 0, 0, false, 7, nil).Build()
	require.Len(t, unranked.Fields, 3)
	assert.Equal(t, "Unranked", unranked.Fields[1].Value)
}

func TestHistoryBuilder(t *testing.T) {
	t.Parallel()

	names := func(id uint64) (string, bool) {
		if id == 200 {
			return "bob", true
		}
		return "", false
	}

	empty := vouch.NewHistoryBuilder(alice, nil, 0, names).Build()
	assert.Equal(t, "No vouches yet.", empty.Description)
	assert.Empty(t, empty.Fields)

	records := []reputation.VouchRecord{
		{Voucher: 200, Reason: "second", Timestamp: now.Add(time.Minute), RepAmount: 3},
		{Voucher: 300, Reason: "first", Timestamp: now, RepAmount: 3},
	}
	embed := vouch.NewHistoryBuilder(alice, records, 6, names).Build()

	assert.Equal(t, "Showing last 2 vouches", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Vouch #1 - bob", embed.Fields[0].Name)
	assert.Equal(t, "Vouch #2 - Unknown User", embed.Fields[1].Name)
	assert.Contains(t, embed.Fields[0].Value, "**Rep Given:** +3 ⭐")
	assert.Contains(t, embed.Fields[0].Value, "**Date:** 2025-03-01 12:01 UTC")
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Total Reputation: 6 ⭐", embed.Footer.Text)
}
