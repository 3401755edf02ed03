package handlers

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/builder/help"
	"github.com/robalyx/vouchbot/internal/bot/builder/leaderboard"
	"github.com/robalyx/vouchbot/internal/bot/builder/vouch"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/metrics"
	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
)

// Vouch attempts a vouch from the actor for the target.
// Accepted vouches notify the target; a store failure is logged and the vouch
// still counts since it has already been applied in memory.
func (h *Handler) Vouch(ctx context.Context, inv Invocation) *Response {
	result, err := h.engine.AttemptVouch(ctx, inv.Actor.member(), inv.Target.member(), inv.Reason)
	if err != nil {
		h.logger.Error("Failed to persist vouch",
			zap.Uint64("voucher", uint64(inv.Actor.ID)),
			zap.Uint64("target", uint64(inv.Target.ID)),
			zap.Error(err))
	}

	metrics.VouchAttemptsTotal.WithLabelValues(result.Status.String()).Inc()

	builder := vouch.NewBuilder(inv.Actor.participant(), inv.Target.participant(), inv.Reason, h.engine.Settings(), result)
	response := embedResponse(builder.Build())

	if result.Accepted() {
		response.Notify = &Notification{
			UserID: inv.Target.ID,
			Embed:  builder.BuildNotification(inv.GuildName),
		}
	}

	return response
}

// Rank shows the balance, rank and recent vouches of the subject.
func (h *Handler) Rank(inv Invocation) *Response {
	subject := inv.subject()
	ledger := h.engine.Ledger()
	user := reputation.UserID(subject.ID)

	rank, ranked := ledger.Rank(user)
	embed := vouch.NewRankBuilder(
		subject.participant(),
		inv.Actor.participant(),
		ledger.GetReputation(user),
		rank,
		ranked,
		ledger.TotalUsers(),
		ledger.VouchHistory(user, constants.RankHistoryLimit),
	).Build()

	return embedResponse(embed)
}

// VouchHistory lists the last vouches received by the subject.
func (h *Handler) VouchHistory(inv Invocation) *Response {
	subject := inv.subject()
	ledger := h.engine.Ledger()
	user := reputation.UserID(subject.ID)

	embed := vouch.NewHistoryBuilder(
		subject.participant(),
		ledger.VouchHistory(user, constants.VouchHistoryLimit),
		ledger.GetReputation(user),
		h.names,
	).Build()

	return embedResponse(embed)
}

// Cooldown shows how long the actor must still wait before vouching.
func (h *Handler) Cooldown(inv Invocation) *Response {
	remaining, active := h.engine.CooldownRemaining(reputation.UserID(inv.Actor.ID))
	embed := vouch.NewCooldownBuilder(inv.Actor.participant(), remaining, active, h.engine.Settings().VouchCooldown).Build()

	return embedResponse(embed)
}

// Help lists the commands. Owner commands are only shown to the owner.
func (h *Handler) Help(inv Invocation) *Response {
	owner := h.Authorize(inv.Actor.ID) == nil
	return embedResponse(help.NewBuilder(h.engine.Settings(), owner).Build())
}

// Leaderboard shows the first leaderboard page.
func (h *Handler) Leaderboard(inv Invocation) *Response {
	return &Response{Message: h.leaderboardPage(inv.Actor.ID, 0, false)}
}

// leaderboardPage builds one page for the owner. Out of range pages are clamped.
func (h *Handler) leaderboardPage(owner snowflake.ID, page int, expired bool) *discord.MessageUpdateBuilder {
	ledger := h.engine.Ledger()
	standings, page, totalPages := ledger.LeaderboardPage(page, h.pageSize)

	builder := leaderboard.NewBuilder(owner, standings, page, totalPages, h.pageSize, ledger.TotalUsers(), h.names)
	if expired {
		builder.Expired()
	}

	return builder.Build()
}
