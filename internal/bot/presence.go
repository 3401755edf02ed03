package bot

import (
	"time"

	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// Online reports whether the gateway connection is ready.
func (b *Bot) Online() bool {
	if b.client == nil || b.client.Gateway() == nil {
		return false
	}
	return b.client.Gateway().Status() == gateway.StatusReady
}

// Latency returns the gateway heartbeat latency.
func (b *Bot) Latency() time.Duration {
	if b.client == nil || b.client.Gateway() == nil {
		return 0
	}
	return b.client.Gateway().Latency()
}

// GuildCount returns the number of guilds the bot is in.
func (b *Bot) GuildCount() int {
	return b.guilds.GuildCount()
}

// MemberCount returns the member count summed over all guilds.
func (b *Bot) MemberCount() int {
	return b.guilds.MemberCount()
}

// DisplayName returns the last display name seen for the user.
func (b *Bot) DisplayName(user reputation.UserID) (string, bool) {
	return b.guilds.DisplayName(snowflake.ID(user))
}
