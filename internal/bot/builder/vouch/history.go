package vouch

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// RankBuilder creates the response of the rank command.
type RankBuilder struct {
	member     Participant
	requester  Participant
	points     int64
	rank       int
	ranked     bool
	totalUsers int
	recent     []reputation.VouchRecord
}

// NewRankBuilder creates a builder for a rank lookup. Recent vouches are newest first.
func NewRankBuilder(
	member, requester Participant, points int64, rank int, ranked bool, totalUsers int, recent []reputation.VouchRecord,
) *RankBuilder {
	return &RankBuilder{
		member:     member,
		requester:  requester,
		points:     points,
		rank:       rank,
		ranked:     ranked,
		totalUsers: totalUsers,
		recent:     recent,
	}
}

// Build returns the rank embed.
func (b *RankBuilder) Build() discord.Embed {
	rankText := "Unranked"
	if b.ranked {
		rankText = fmt.Sprintf("#%d", b.rank)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(b.member.Name+"'s Reputation").
		SetColor(constants.ColorBlue).
		AddField("Reputation", "⭐ "+utils.FormatNumber(b.points), true).
		AddField("Rank", rankText, true).
		AddField("Total Users", utils.FormatCount(b.totalUsers), true).
		SetFooter("Requested by "+b.requester.Name, "")

	if b.member.AvatarURL != "" {
		embed.SetThumbnail(b.member.AvatarURL)
	}

	if len(b.recent) > 0 {
		lines := make([]string, 0, len(b.recent))
		for _, record := range b.recent {
			lines = append(lines, fmt.Sprintf("%s: %s\n*%s*",
				utils.Mention(uint64(record.Voucher)),
				utils.NormalizeString(utils.TruncateString(record.Reason, constants.MaxReasonDisplay)),
				utils.FormatTimestamp(record.Timestamp),
			))
		}

		embed.AddField(
			fmt.Sprintf("Recent Vouches (Last %d)", constants.RankHistoryLimit),
			strings.Join(lines, "\n\n"),
			false,
		)
	}

	return embed.Build()
}

// HistoryBuilder creates the response of the vouch history command.
type HistoryBuilder struct {
	member  Participant
	records []reputation.VouchRecord
	points  int64
	names   utils.NameFunc
}

// NewHistoryBuilder creates a builder for a vouch history. Records are newest first.
func NewHistoryBuilder(member Participant, records []reputation.VouchRecord, points int64, names utils.NameFunc) *HistoryBuilder {
	return &HistoryBuilder{
		member:  member,
		records: records,
		points:  points,
		names:   names,
	}
}

// Build returns the history embed.
func (b *HistoryBuilder) Build() discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle(b.member.Name + "'s Vouch History").
		SetColor(constants.ColorBlue)

	if b.member.AvatarURL != "" {
		embed.SetThumbnail(b.member.AvatarURL)
	}

	if len(b.records) == 0 {
		return embed.SetDescription("No vouches yet.").Build()
	}

	embed.SetDescription(fmt.Sprintf("Showing last %d vouches", len(b.records)))

	for i, record := range b.records {
		embed.AddField(
			fmt.Sprintf("Vouch #%d - %s", i+1, utils.ResolveName(b.names, uint64(record.Voucher), constants.UnknownUser)),
			fmt.Sprintf("**From:** %s\n**Reason:** %s\n**Rep Given:** %s ⭐\n**Date:** %s UTC",
				utils.Mention(uint64(record.Voucher)),
				utils.TruncateString(record.Reason, constants.MaxReasonDisplay),
				utils.FormatSigned(record.RepAmount),
				utils.FormatTimestamp(record.Timestamp),
			),
			false,
		)
	}

	embed.SetFooter("Total Reputation: "+utils.FormatPoints(b.points), "")

	return embed.Build()
}
