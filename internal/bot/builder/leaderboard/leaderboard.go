package leaderboard

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// Builder creates the visual layout of one leaderboard page.
type Builder struct {
	owner      snowflake.ID
	standings  []reputation.Standing
	page       int
	totalPages int
	pageSize   int
	totalUsers int
	names      utils.NameFunc
	expired    bool
}

// NewBuilder creates a leaderboard builder. The page is zero-based and the
// standings are the ones of that page only.
func NewBuilder(
	owner snowflake.ID, standings []reputation.Standing, page, totalPages, pageSize, totalUsers int, names utils.NameFunc,
) *Builder {
	return &Builder{
		owner:      owner,
		standings:  standings,
		page:       page,
		totalPages: max(totalPages, 1),
		pageSize:   pageSize,
		totalUsers: totalUsers,
		names:      names,
	}
}

// Expired disables every navigation button.
func (b *Builder) Expired() *Builder {
	b.expired = true
	return b
}

// Build creates the message containing the leaderboard page. Buttons are only
// added when there is more than one page.
func (b *Builder) Build() *discord.MessageUpdateBuilder {
	builder := discord.NewMessageUpdateBuilder().
		SetEmbeds(b.buildEmbed())

	if b.totalPages > 1 {
		builder.AddActionRow(b.buildButtons()...)
	} else {
		builder.ClearContainerComponents()
	}

	return builder
}

// buildEmbed creates the leaderboard embed.
func (b *Builder) buildEmbed() discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle("📊 Reputation Leaderboard").
		SetColor(constants.ColorGold)

	if len(b.standings) == 0 {
		return embed.
			SetDescription("No reputation data yet. Use `/vouch` to start building reputation!").
			Build()
	}

	first := b.page*b.pageSize + 1
	last := first + len(b.standings) - 1

	lines := make([]string, 0, len(b.standings))
	for i, standing := range b.standings {
		lines = append(lines, fmt.Sprintf("%s %s - %s rep",
			utils.RankDisplay(first+i),
			b.displayName(standing.UserID),
			utils.FormatNumber(standing.Points),
		))
	}

	return embed.
		AddField(fmt.Sprintf("Rankings %d-%d", first, last), strings.Join(lines, "\n"), false).
		SetFooter(fmt.Sprintf("Page %d/%d | Total Users: %s",
			b.page+1, b.totalPages, utils.FormatCount(b.totalUsers)), "").
		Build()
}

// buildButtons creates the navigation buttons. Each custom ID carries the
// owner and the target page.
func (b *Builder) buildButtons() []discord.InteractiveComponent {
	hasPrev := b.page > 0 && !b.expired
	hasNext := b.page < b.totalPages-1 && !b.expired

	return []discord.InteractiveComponent{
		discord.NewSecondaryButton("⏮️", b.customID(constants.FirstPageAction, 0)).
			WithDisabled(!hasPrev),
		discord.NewPrimaryButton("◀️", b.customID(constants.PrevPageAction, max(b.page-1, 0))).
			WithDisabled(!hasPrev),
		discord.NewPrimaryButton("▶️", b.customID(constants.NextPageAction, min(b.page+1, b.totalPages-1))).
			WithDisabled(!hasNext),
		discord.NewSecondaryButton("⏭️", b.customID(constants.LastPageAction, b.totalPages-1)).
			WithDisabled(!hasNext),
		discord.NewDangerButton("🗑️", b.customID(constants.DeleteAction, 0)).
			WithDisabled(b.expired),
	}
}

func (b *Builder) customID(action string, page int) string {
	return utils.CustomID{
		Prefix: constants.LeaderboardCustomIDPrefix,
		Action: action,
		Owner:  b.owner,
		Arg:    uint64(page),
	}.String()
}

// displayName bolds a known name and falls back to a mention.
func (b *Builder) displayName(user reputation.UserID) string {
	if name := utils.ResolveName(b.names, uint64(user), ""); name != "" {
		return "**" + name + "**"
	}
	return utils.Mention(uint64(user))
}
