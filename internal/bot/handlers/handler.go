package handlers

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/builder/vouch"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
)

// User is a Discord account taking part in a command.
type User struct {
	ID        snowflake.ID
	Name      string
	AvatarURL string
	Bot       bool
}

// NewUser converts a Discord user.
func NewUser(user discord.User) User {
	return User{
		ID:        user.ID,
		Name:      user.EffectiveName(),
		AvatarURL: user.EffectiveAvatarURL(),
		Bot:       user.Bot,
	}
}

func (u User) member() reputation.Member {
	return reputation.Member{ID: reputation.UserID(u.ID), Bot: u.Bot}
}

func (u User) participant() vouch.Participant {
	return vouch.Participant{ID: uint64(u.ID), Name: u.Name, AvatarURL: u.AvatarURL}
}

// Invocation holds the parsed options of a slash command.
type Invocation struct {
	Actor     User
	Target    User
	HasTarget bool
	Reason    string
	Amount    int64
	GuildName string
}

// subject returns the target when given and the actor otherwise.
func (i Invocation) subject() User {
	if i.HasTarget {
		return i.Target
	}
	return i.Actor
}

// Notification is a direct message to send once the command has been answered.
type Notification struct {
	UserID snowflake.ID
	Embed  discord.Embed
}

// Response is the result of a command or component handler.
type Response struct {
	Message *discord.MessageUpdateBuilder
	Notify  *Notification
	Delete  bool
}

// embedResponse wraps a single embed.
func embedResponse(embed discord.Embed) *Response {
	return &Response{Message: discord.NewMessageUpdateBuilder().SetEmbeds(embed)}
}

// Handler runs the reputation commands against the vouch engine.
// It has no Discord connection so every command can run in isolation.
type Handler struct {
	engine   *reputation.Engine
	names    utils.NameFunc
	pageSize int
	logger   *zap.Logger
}

// New creates a command handler. Names resolves display names of users that
// are not part of the invocation.
func New(engine *reputation.Engine, names utils.NameFunc, pageSize int, logger *zap.Logger) *Handler {
	return &Handler{
		engine:   engine,
		names:    names,
		pageSize: pageSize,
		logger:   logger.Named("handlers"),
	}
}

// Authorize reports whether the actor may use owner commands.
func (h *Handler) Authorize(actor snowflake.ID) error {
	return h.engine.Authorize(reputation.UserID(actor))
}

// Settings returns the active vouch policy.
func (h *Handler) Settings() reputation.Settings {
	return h.engine.Settings()
}
