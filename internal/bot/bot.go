package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	guildevents "github.com/robalyx/vouchbot/internal/bot/events"
	"github.com/robalyx/vouchbot/internal/bot/handlers"
	"github.com/robalyx/vouchbot/internal/metrics"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"go.uber.org/zap"
)

// commandTimeout bounds the store work of a single interaction.
const commandTimeout = 30 * time.Second

// Bot connects the reputation commands to Discord.
type Bot struct {
	client  bot.Client
	config  *config.BotConfig
	handler *handlers.Handler
	guilds  *guildevents.GuildEventHandler
	clock   clockwork.Clock
	logger  *zap.Logger
}

// New creates the Discord client with the gateway intents, presence and
// event listeners the bot needs.
func New(cfg *config.BotConfig, engine *reputation.Engine, clock clockwork.Clock, logger *zap.Logger) (*Bot, error) {
	b := newBot(cfg, engine, clock, logger)

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(gateway.IntentGuilds),
			gateway.WithPresenceOpts(gateway.WithWatchingActivity(constants.PresenceActivity)),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnComponentInteraction:          b.handleComponentInteraction,
			OnGuildReady:                    b.guilds.OnGuildReady,
			OnGuildJoin:                     b.guilds.OnGuildJoin,
			OnGuildLeave:                    b.guilds.OnGuildLeave,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	b.client = client
	return b, nil
}

// newBot creates a bot without a Discord connection.
func newBot(cfg *config.BotConfig, engine *reputation.Engine, clock clockwork.Clock, logger *zap.Logger) *Bot {
	logger = logger.Named("bot")
	guilds := guildevents.NewGuildEventHandler(logger)

	names := func(id uint64) (string, bool) {
		return guilds.DisplayName(snowflake.ID(id))
	}

	return &Bot{
		config:  cfg,
		handler: handlers.New(engine, names, cfg.Reputation.LeaderboardPageSize, logger),
		guilds:  guilds,
		clock:   clock,
		logger:  logger,
	}
}

// Start registers the slash commands and opens the gateway connection.
// Commands are registered in the configured guild, or globally when none is set.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	commands := handlers.Commands()

	var err error
	if guildID := b.config.Discord.GuildID; guildID != 0 {
		_, err = b.client.Rest().SetGuildCommands(b.client.ApplicationID(), snowflake.ID(guildID), commands)
	} else {
		_, err = b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), commands)
	}
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")
	return b.client.OpenGateway(ctx)
}

// Run starts the bot and closes it once the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b.Close(closeCtx)
	return nil
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}

// handleApplicationCommandInteraction processes slash commands by first deferring the response,
// then running the command in a goroutine. Owner commands are checked before deferring
// so the refusal can be sent as an ephemeral message.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	data, ok := event.Data.(discord.SlashCommandInteractionData)
	if !ok {
		return
	}
	command := data.CommandName()

	if handlers.IsOwnerCommand(command) {
		if err := b.handler.Authorize(event.User().ID); err != nil {
			metrics.CommandsTotal.WithLabelValues(command, "denied").Inc()
			metrics.AdminActionsTotal.WithLabelValues(command, "denied").Inc()

			if err := event.CreateMessage(discord.NewMessageCreateBuilder().
				SetContent(constants.NotOwnerMessage).
				SetEphemeral(true).
				Build()); err != nil {
				b.logger.Error("Failed to send permission error", zap.Error(err))
			}
			return
		}
	}

	go func() {
		// Defer response to prevent Discord timeout while processing
		if err := event.DeferCreateMessage(handlers.IsEphemeral(command)); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		start := b.clock.Now()
		result := "success"
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in application command interaction handler",
					zap.String("command", command),
					zap.Any("panic", r))
				b.respondWithError(event.Client(), event.ApplicationID(), event.Token(), constants.InternalErrorMessage)
				result = "panic"
			}

			duration := b.clock.Since(start)
			metrics.CommandsTotal.WithLabelValues(command, result).Inc()
			metrics.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())

			b.logger.Debug("Application command interaction handled",
				zap.String("command", command),
				zap.Duration("duration", duration))
		}()

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		response, err := b.handler.Run(ctx, command, b.invocation(event, data))
		if err != nil {
			b.logger.Warn("Failed to run command", zap.String("command", command), zap.Error(err))
			b.respondWithError(event.Client(), event.ApplicationID(), event.Token(), "This command is not available.")
			result = "error"
			return
		}

		if _, err := event.Client().Rest().UpdateInteractionResponse(
			event.ApplicationID(), event.Token(), response.Message.Build(),
		); err != nil {
			b.logger.Error("Failed to update interaction response", zap.Error(err))
			result = "error"
		}

		if response.Notify != nil {
			b.notify(event.Client(), response.Notify)
		}
	}()
}

// handleComponentInteraction processes button clicks on leaderboards and
// clear confirmations in a goroutine.
func (b *Bot) handleComponentInteraction(event *events.ComponentInteractionCreate) {
	go func() {
		customID := event.Data.CustomID()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in component interaction handler",
					zap.String("custom_id", customID),
					zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		age := b.clock.Since(event.Message.CreatedAt)

		response, err := b.handler.HandleComponent(ctx, event.User().ID, customID, age)
		switch {
		case errors.Is(err, handlers.ErrNotController):
			b.replyEphemeral(event, constants.NotControllerMessage)
		case err != nil:
			b.logger.Warn("Failed to handle component", zap.String("custom_id", customID), zap.Error(err))
			b.replyEphemeral(event, constants.InternalErrorMessage)
		case response.Delete:
			if err := event.DeferUpdateMessage(); err != nil {
				b.logger.Error("Failed to defer update message", zap.Error(err))
				return
			}
			if err := event.Client().Rest().DeleteMessage(event.Message.ChannelID, event.Message.ID); err != nil {
				b.logger.Error("Failed to delete message", zap.Error(err))
			}
		default:
			if err := event.UpdateMessage(response.Message.Build()); err != nil {
				b.logger.Error("Failed to update message", zap.Error(err))
			}
		}
	}()
}

// invocation collects the options of a slash command and remembers the
// display names of the users involved.
func (b *Bot) invocation(
	event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) handlers.Invocation {
	inv := handlers.Invocation{Actor: handlers.NewUser(event.User())}
	b.guilds.RememberUser(inv.Actor.ID, inv.Actor.Name)

	if user, ok := data.OptUser(constants.MemberOptionName); ok {
		inv.Target = handlers.NewUser(user)
		inv.HasTarget = true
		b.guilds.RememberUser(inv.Target.ID, inv.Target.Name)
	}

	inv.Reason, _ = data.OptString(constants.ReasonOptionName)

	if amount, ok := data.OptInt(constants.AmountOptionName); ok {
		inv.Amount = int64(amount)
	}

	if guildID := event.GuildID(); guildID != nil {
		inv.GuildName = b.guilds.GuildName(*guildID)
	}

	return inv
}

// notify sends a direct message. Users with closed DMs are skipped.
func (b *Bot) notify(client bot.Client, notification *handlers.Notification) {
	channel, err := client.Rest().CreateDMChannel(notification.UserID)
	if err != nil {
		b.logger.Debug("Failed to create DM channel",
			zap.Uint64("user_id", uint64(notification.UserID)),
			zap.Error(err))
		return
	}

	_, err = client.Rest().CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		SetEmbeds(notification.Embed).
		Build())
	if err != nil {
		b.logger.Debug("Failed to send vouch notification",
			zap.Uint64("user_id", uint64(notification.UserID)),
			zap.Error(err))
	}
}

// respondWithError replaces a deferred response with an error message.
func (b *Bot) respondWithError(client bot.Client, applicationID snowflake.ID, token, content string) {
	_, err := client.Rest().UpdateInteractionResponse(applicationID, token, discord.NewMessageUpdateBuilder().
		SetContent("❌ "+content).
		ClearEmbeds().
		ClearContainerComponents().
		Build())
	if err != nil {
		b.logger.Error("Failed to send error response", zap.Error(err))
	}
}

// replyEphemeral answers a component interaction with a message only the presser sees.
func (b *Bot) replyEphemeral(event *events.ComponentInteractionCreate, content string) {
	if err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build()); err != nil {
		b.logger.Error("Failed to send ephemeral reply", zap.Error(err))
	}
}
