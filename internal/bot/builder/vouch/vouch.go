package vouch

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// Participant is a user shown in a vouch embed.
type Participant struct {
	ID        uint64
	Name      string
	AvatarURL string
}

// Mention returns the Discord mention of the participant.
func (p Participant) Mention() string {
	return utils.Mention(p.ID)
}

// Builder creates the response embeds of the vouch command.
type Builder struct {
	voucher  Participant
	target   Participant
	reason   string
	settings reputation.Settings
	result   reputation.VouchResult
}

// NewBuilder creates a builder for one vouch attempt.
func NewBuilder(
	voucher, target Participant, reason string, settings reputation.Settings, result reputation.VouchResult,
) *Builder {
	return &Builder{
		voucher:  voucher,
		target:   target,
		reason:   reason,
		settings: settings,
		result:   result,
	}
}

// Build returns the embed describing the outcome of the attempt.
func (b *Builder) Build() discord.Embed {
	switch b.result.Status {
	case reputation.VouchAccepted:
		return b.buildSuccess()
	case reputation.VouchInvalidReason:
		return b.buildReasonRequired()
	case reputation.VouchSelf:
		return discord.NewEmbedBuilder().
			SetTitle("❌ Cannot Vouch Yourself").
			SetDescription("You cannot vouch for yourself!").
			SetColor(constants.ColorRed).
			Build()
	case reputation.VouchBotTarget:
		return discord.NewEmbedBuilder().
			SetTitle("❌ Cannot Vouch Bots").
			SetDescription("You cannot vouch for bots!").
			SetColor(constants.ColorRed).
			Build()
	case reputation.VouchCooldown:
		return b.buildCooldown()
	default:
		return discord.NewEmbedBuilder().
			SetTitle("❌ Vouch Failed").
			SetDescription(constants.InternalErrorMessage).
			SetColor(constants.ColorRed).
			Build()
	}
}

// BuildNotification returns the direct message sent to the vouch target.
// It must only be called for an accepted vouch.
func (b *Builder) BuildNotification(guildName string) discord.Embed {
	if guildName == "" {
		guildName = "a server"
	}

	return discord.NewEmbedBuilder().
		SetTitle("🎉 You Received a Vouch!").
		SetDescription(fmt.Sprintf("**%s** vouched for you in **%s**", b.voucher.Name, guildName)).
		SetColor(constants.ColorGold).
		AddField("Reason", b.displayReason(), false).
		AddField("Reputation Gained", utils.FormatSigned(b.result.Record.RepAmount)+" ⭐", true).
		AddField("Total Reputation", utils.FormatPoints(b.result.Balance), true).
		SetTimestamp(b.result.Record.Timestamp).
		Build()
}

func (b *Builder) buildSuccess() discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle("✅ Vouch Successful").
		SetDescription(fmt.Sprintf("%s vouched for %s", b.voucher.Mention(), b.target.Mention())).
		SetColor(constants.ColorGreen).
		AddField("Reason", b.displayReason(), false).
		AddField("Reputation Given", utils.FormatSigned(b.result.Record.RepAmount)+" ⭐", true).
		AddField("New Total", utils.FormatPoints(b.result.Balance), true).
		AddField("Next Vouch", "Available in "+utils.FormatMinutes(b.settings.VouchCooldown), false).
		SetFooter("Vouched by "+b.voucher.Name, "")

	if b.target.AvatarURL != "" {
		embed.SetThumbnail(b.target.AvatarURL)
	}

	return embed.Build()
}

func (b *Builder) buildReasonRequired() discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("⚠️ Vouch Reason Required").
		SetDescription(
			"You must provide a valid reason when vouching for someone.\n\n" +
				"**Proper Usage:**\n" +
				"`/vouch member:@user reason:reason for vouching`\n\n" +
				"**Examples:**\n" +
				"✅ `/vouch member:@John reason:Great trader, smooth deal!`\n" +
				"✅ `/vouch member:@Sarah reason:Trustworthy and fast service`\n" +
				"❌ `/vouch member:@Alex reason:ok`\n\n" +
				"⚠️ **WARNING:** Vouching without a valid reason will result in punishment.",
		).
		SetColor(constants.ColorRed).
		Build()
}

func (b *Builder) buildCooldown() discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("⏰ Vouch Cooldown Active").
		SetDescription(fmt.Sprintf("You can vouch again in **%s**", utils.FormatCooldown(b.result.Remaining))).
		SetColor(constants.ColorOrange).
		AddField("Cooldown", "You can vouch once every "+utils.FormatMinutes(b.settings.VouchCooldown), false).
		SetFooter("Requested by "+b.voucher.Name, "").
		Build()
}

func (b *Builder) displayReason() string {
	reason := b.result.Record.Reason
	if reason == "" {
		reason = b.reason
	}
	return utils.TruncateString(reason, constants.MaxReasonDisplay)
}

// CooldownBuilder creates the response of the cooldown command.
type CooldownBuilder struct {
	requester Participant
	remaining time.Duration
	active    bool
	window    time.Duration
}

// NewCooldownBuilder creates a builder for a cooldown lookup.
func NewCooldownBuilder(requester Participant, remaining time.Duration, active bool, window time.Duration) *CooldownBuilder {
	return &CooldownBuilder{
		requester: requester,
		remaining: remaining,
		active:    active,
		window:    window,
	}
}

// Build returns the cooldown embed.
func (b *CooldownBuilder) Build() discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle("⏰ Vouch Cooldown").
		SetColor(constants.ColorBlue).
		SetFooter("Requested by "+b.requester.Name, "")

	if b.active {
		embed.SetDescription(fmt.Sprintf("You can vouch again in **%s**", utils.FormatCooldown(b.remaining)))
		embed.AddField("Cooldown Duration", utils.FormatMinutes(b.window), false)
	} else {
		embed.SetDescription("✅ You can vouch now!")
		embed.AddField("Usage", "`/vouch member:@user reason:your reason`", false)
	}

	return embed.Build()
}
