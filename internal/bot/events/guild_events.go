package events

import (
	"sync"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// guildInfo is what the bot remembers about a guild it is in.
type guildInfo struct {
	name    string
	members int
}

// GuildEventHandler tracks the guilds the bot is in and the display names
// of users it has seen in interactions.
type GuildEventHandler struct {
	mu     sync.RWMutex
	guilds map[snowflake.ID]guildInfo
	names  sync.Map
	logger *zap.Logger
}

// NewGuildEventHandler creates a new instance of the guild event handler.
func NewGuildEventHandler(logger *zap.Logger) *GuildEventHandler {
	return &GuildEventHandler{
		guilds: make(map[snowflake.ID]guildInfo),
		logger: logger.Named("guild_events"),
	}
}

// OnGuildReady handles guilds sent by the gateway after connecting.
func (h *GuildEventHandler) OnGuildReady(event *events.GuildReady) {
	h.track(event.Guild.ID, event.Guild.Name, event.Guild.MemberCount)
}

// OnGuildJoin handles the event when the bot joins a new guild.
func (h *GuildEventHandler) OnGuildJoin(event *events.GuildJoin) {
	h.logger.Info("Bot joined a new guild",
		zap.String("guildID", event.Guild.ID.String()),
		zap.String("guild_name", event.Guild.Name))

	h.track(event.Guild.ID, event.Guild.Name, event.Guild.MemberCount)
}

// OnGuildLeave handles the event when the bot is removed from a guild.
func (h *GuildEventHandler) OnGuildLeave(event *events.GuildLeave) {
	h.logger.Info("Bot left a guild", zap.String("guildID", event.GuildID.String()))

	h.mu.Lock()
	delete(h.guilds, event.GuildID)
	h.mu.Unlock()
}

func (h *GuildEventHandler) track(guildID snowflake.ID, name string, members int) {
	h.mu.Lock()
	h.guilds[guildID] = guildInfo{name: name, members: members}
	h.mu.Unlock()
}

// GuildCount returns the number of guilds the bot is in.
func (h *GuildEventHandler) GuildCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.guilds)
}

// MemberCount returns the member count summed over all guilds.
// Users in several guilds are counted once per guild.
func (h *GuildEventHandler) MemberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, guild := range h.guilds {
		total += guild.members
	}
	return total
}

// GuildName returns the name of a tracked guild or an empty string.
func (h *GuildEventHandler) GuildName(guildID snowflake.ID) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.guilds[guildID].name
}

// RememberUser records the display name of a user seen in an interaction.
func (h *GuildEventHandler) RememberUser(userID snowflake.ID, name string) {
	if name != "" {
		h.names.Store(userID, name)
	}
}

// DisplayName returns the last display name seen for the user.
func (h *GuildEventHandler) DisplayName(userID snowflake.ID) (string, bool) {
	name, ok := h.names.Load(userID)
	if !ok {
		return "", false
	}
	return name.(string), true
}
