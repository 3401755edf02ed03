package admin

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// Adjustment is the kind of balance override performed by the owner.
type Adjustment int

const (
	AdjustAdd Adjustment = iota
	AdjustRemove
	AdjustSet
)

// AdjustmentBuilder creates the response of the addrep, removerep and setrep commands.
type AdjustmentBuilder struct {
	kind     Adjustment
	target   uint64
	previous int64
	amount   int64
	current  int64
}

// NewAdjustmentBuilder creates a builder for a completed balance override.
func NewAdjustmentBuilder(kind Adjustment, target uint64, previous, amount, current int64) *AdjustmentBuilder {
	return &AdjustmentBuilder{
		kind:     kind,
		target:   target,
		previous: previous,
		amount:   amount,
		current:  current,
	}
}

// Build returns the adjustment embed.
func (b *AdjustmentBuilder) Build() discord.Embed {
	mention := utils.Mention(b.target)
	embed := discord.NewEmbedBuilder().
		SetColor(constants.ColorGreen).
		AddField("Previous Rep", utils.FormatPoints(b.previous), true)

	switch b.kind {
	case AdjustAdd:
		embed.SetTitle("✅ Reputation Added").
			SetDescription(fmt.Sprintf("Added **%s** reputation to %s", utils.FormatNumber(b.amount), mention)).
			AddField("Amount Added", utils.FormatSigned(b.amount)+" ⭐", true).
			AddField("New Total", utils.FormatPoints(b.current), true)
	case AdjustRemove:
		embed.SetTitle("✅ Reputation Removed").
			SetDescription(fmt.Sprintf("Removed **%s** reputation from %s", utils.FormatNumber(b.amount), mention)).
			AddField("Amount Removed", utils.FormatSigned(-b.amount)+" ⭐", true).
			AddField("New Total", utils.FormatPoints(b.current), true)
	case AdjustSet:
		embed.SetTitle("✅ Reputation Set").
			SetDescription(fmt.Sprintf("Set reputation of %s to **%s**", mention, utils.FormatNumber(b.current))).
			AddField("New Rep", utils.FormatPoints(b.current), true).
			AddField("Difference", utils.FormatSigned(b.current-b.previous)+" ⭐", true)
	}

	return embed.Build()
}

// BuildInvalidAmount returns the embed shown when an override amount is rejected.
func BuildInvalidAmount(kind Adjustment) discord.Embed {
	description := "Amount must be a positive number."
	if kind == AdjustSet {
		description = "Amount cannot be negative."
	}

	return discord.NewEmbedBuilder().
		SetTitle("❌ Invalid Amount").
		SetDescription(description).
		SetColor(constants.ColorRed).
		Build()
}

// ClearConfirmBuilder creates the confirmation prompt of the clearrep command.
type ClearConfirmBuilder struct {
	owner   snowflake.ID
	target  uint64
	points  int64
	vouches int
}

// NewClearConfirmBuilder creates a confirmation prompt for clearing the target.
func NewClearConfirmBuilder(owner snowflake.ID, target uint64, points int64, vouches int) *ClearConfirmBuilder {
	return &ClearConfirmBuilder{
		owner:   owner,
		target:  target,
		points:  points,
		vouches: vouches,
	}
}

// Build creates the prompt with its confirm and cancel buttons.
func (b *ClearConfirmBuilder) Build() *discord.MessageUpdateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("⚠️ Confirm Reputation Clear").
		SetDescription(fmt.Sprintf(
			"Are you sure you want to clear **all** reputation and vouch history for %s?\nThis cannot be undone.",
			utils.Mention(b.target),
		)).
		SetColor(constants.ColorOrange).
		AddField("Current Rep", utils.FormatPoints(b.points), true).
		AddField("Vouches", utils.FormatCount(b.vouches), true).
		SetFooter(fmt.Sprintf("This confirmation expires in %d seconds", int(constants.ConfirmationTimeout.Seconds())), "").
		Build()

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed).
		AddActionRow(
			discord.NewDangerButton("Confirm", b.customID(constants.ConfirmAction)),
			discord.NewSecondaryButton("Cancel", b.customID(constants.CancelAction)),
		)
}

func (b *ClearConfirmBuilder) customID(action string) string {
	return utils.CustomID{
		Prefix: constants.ClearRepCustomIDPrefix,
		Action: action,
		Owner:  b.owner,
		Arg:    b.target,
	}.String()
}

// ClearOutcome is the final state of a clear confirmation.
type ClearOutcome int

const (
	ClearDone ClearOutcome = iota
	ClearNothing
	ClearCancelled
	ClearTimedOut
)

// BuildClearResult replaces the confirmation prompt once it is resolved.
func BuildClearResult(outcome ClearOutcome, target uint64) *discord.MessageUpdateBuilder {
	embed := discord.NewEmbedBuilder()
	mention := utils.Mention(target)

	switch outcome {
	case ClearDone:
		embed.SetTitle("✅ Reputation Cleared").
			SetDescription("Cleared all reputation and vouch history for " + mention).
			SetColor(constants.ColorGreen)
	case ClearNothing:
		embed.SetTitle("ℹ️ Nothing to Clear").
			SetDescription(mention + " has no reputation or vouch history.").
			SetColor(constants.ColorBlue)
	case ClearCancelled:
		embed.SetTitle("❌ Cancelled").
			SetDescription("Reputation clear was cancelled.").
			SetColor(constants.ColorRed)
	case ClearTimedOut:
		embed.SetTitle("⏰ Confirmation Timeout").
			SetDescription("The confirmation expired. Run the command again to clear " + mention + ".").
			SetColor(constants.ColorOrange)
	}

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build()).
		ClearContainerComponents()
}

// BuildCooldownReset returns the response of the resetcooldown command.
func BuildCooldownReset(target uint64, existed bool) discord.Embed {
	mention := utils.Mention(target)

	if !existed {
		return discord.NewEmbedBuilder().
			SetTitle("ℹ️ No Cooldown").
			SetDescription(mention + " does not have an active cooldown.").
			SetColor(constants.ColorBlue).
			Build()
	}

	return discord.NewEmbedBuilder().
		SetTitle("✅ Cooldown Reset").
		SetDescription("Reset the vouch cooldown for " + mention).
		SetColor(constants.ColorGreen).
		AddField("Status", "Can vouch immediately", false).
		Build()
}

// StatsBuilder creates the response of the repstats command.
type StatsBuilder struct {
	stats    reputation.Statistics
	settings reputation.Settings
	names    utils.NameFunc
}

// NewStatsBuilder creates a builder for the ledger statistics.
func NewStatsBuilder(stats reputation.Statistics, settings reputation.Settings, names utils.NameFunc) *StatsBuilder {
	return &StatsBuilder{
		stats:    stats,
		settings: settings,
		names:    names,
	}
}

// Build returns the statistics embed.
func (b *StatsBuilder) Build() discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle("📊 Reputation System Statistics").
		SetColor(constants.ColorBlue).
		AddField("Total Users", utils.FormatCount(b.stats.TotalUsers), true).
		AddField("Total Reputation", utils.FormatPoints(b.stats.TotalReputation), true).
		AddField("Total Vouches", utils.FormatCount(b.stats.TotalVouches), true).
		AddField("Active Cooldowns", utils.FormatCount(b.stats.ActiveCooldowns), true).
		AddField("Vouch Amount", utils.FormatPoints(b.settings.VouchRepAmount), true).
		AddField("Vouch Cooldown", utils.FormatMinutes(b.settings.VouchCooldown), true)

	if top := b.stats.Top; top != nil {
		id := uint64(top.UserID)
		embed.AddField("Top User",
			fmt.Sprintf("%s (%s)", utils.ResolveName(b.names, id, utils.Mention(id)), utils.FormatPoints(top.Points)),
			false)
	}

	return embed.Build()
}
