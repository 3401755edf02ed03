package handlers

import (
	"context"
	"errors"
	"math"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/builder/admin"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/metrics"
	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
)

const (
	resultSuccess = "success"
	resultInvalid = "invalid"
	resultNoop    = "noop"
	resultError   = "error"
)

// AddRep adds reputation to the target.
func (h *Handler) AddRep(ctx context.Context, inv Invocation) *Response {
	return h.adjust(ctx, inv, admin.AdjustAdd, constants.AddRepCommandName, reputation.OverrideAdd)
}

// RemoveRep removes reputation from the target without going below zero.
func (h *Handler) RemoveRep(ctx context.Context, inv Invocation) *Response {
	return h.adjust(ctx, inv, admin.AdjustRemove, constants.RemoveRepCommandName, reputation.OverrideRemove)
}

// SetRep overwrites the reputation of the target.
func (h *Handler) SetRep(ctx context.Context, inv Invocation) *Response {
	return h.adjust(ctx, inv, admin.AdjustSet, constants.SetRepCommandName, reputation.OverrideSet)
}

// adjust applies a balance override and reports the previous and new balance.
func (h *Handler) adjust(
	ctx context.Context,
	inv Invocation,
	kind admin.Adjustment,
	command string,
	override reputation.Override,
) *Response {
	change, err := h.engine.Ledger().Override(ctx, reputation.UserID(inv.Target.ID), override, inv.Amount)
	switch {
	case errors.Is(err, reputation.ErrInvalidAmount):
		metrics.AdminActionsTotal.WithLabelValues(command, resultInvalid).Inc()
		return embedResponse(admin.BuildInvalidAmount(kind))
	case err != nil:
		h.logger.Error("Failed to persist reputation override",
			zap.String("command", command),
			zap.Uint64("target", uint64(inv.Target.ID)),
			zap.Error(err))
		metrics.AdminActionsTotal.WithLabelValues(command, resultError).Inc()
	default:
		metrics.AdminActionsTotal.WithLabelValues(command, resultSuccess).Inc()
	}

	h.logger.Info("Reputation override applied",
		zap.String("command", command),
		zap.Uint64("actor", uint64(inv.Actor.ID)),
		zap.Uint64("target", uint64(inv.Target.ID)),
		zap.Int64("previous", change.Previous),
		zap.Int64("current", change.Current))

	return embedResponse(admin.NewAdjustmentBuilder(
		kind, uint64(inv.Target.ID), change.Previous, inv.Amount, change.Current,
	).Build())
}

// ClearRep asks the actor to confirm clearing the target.
func (h *Handler) ClearRep(inv Invocation) *Response {
	ledger := h.engine.Ledger()
	user := reputation.UserID(inv.Target.ID)

	points := ledger.GetReputation(user)
	vouches := len(ledger.VouchHistory(user, math.MaxInt))

	return &Response{
		Message: admin.NewClearConfirmBuilder(inv.Actor.ID, uint64(inv.Target.ID), points, vouches).Build(),
	}
}

// ResolveClear handles a press on the clear confirmation buttons.
func (h *Handler) ResolveClear(ctx context.Context, action string, target snowflake.ID, expired bool) *Response {
	var outcome admin.ClearOutcome

	switch {
	case expired:
		outcome = admin.ClearTimedOut
	case action == constants.CancelAction:
		outcome = admin.ClearCancelled
	default:
		existed, err := h.engine.Ledger().ClearReputation(ctx, reputation.UserID(target))
		switch {
		case err != nil:
			h.logger.Error("Failed to persist reputation clear",
				zap.Uint64("target", uint64(target)),
				zap.Error(err))
			metrics.AdminActionsTotal.WithLabelValues(constants.ClearRepCommandName, resultError).Inc()
		case existed:
			metrics.AdminActionsTotal.WithLabelValues(constants.ClearRepCommandName, resultSuccess).Inc()
		default:
			metrics.AdminActionsTotal.WithLabelValues(constants.ClearRepCommandName, resultNoop).Inc()
		}

		outcome = admin.ClearDone
		if !existed {
			outcome = admin.ClearNothing
		}
	}

	return &Response{Message: admin.BuildClearResult(outcome, uint64(target))}
}

// ResetCooldown lets the target vouch again immediately.
func (h *Handler) ResetCooldown(ctx context.Context, inv Invocation) *Response {
	existed, err := h.engine.ResetCooldown(ctx, reputation.UserID(inv.Target.ID))
	switch {
	case err != nil:
		h.logger.Error("Failed to persist cooldown reset",
			zap.Uint64("target", uint64(inv.Target.ID)),
			zap.Error(err))
		metrics.AdminActionsTotal.WithLabelValues(constants.ResetCooldownCommandName, resultError).Inc()
	case existed:
		metrics.AdminActionsTotal.WithLabelValues(constants.ResetCooldownCommandName, resultSuccess).Inc()
	default:
		metrics.AdminActionsTotal.WithLabelValues(constants.ResetCooldownCommandName, resultNoop).Inc()
	}

	return embedResponse(admin.BuildCooldownReset(uint64(inv.Target.ID), existed))
}

// RepStats summarizes the whole ledger.
func (h *Handler) RepStats() *Response {
	metrics.AdminActionsTotal.WithLabelValues(constants.RepStatsCommandName, resultSuccess).Inc()
	return embedResponse(admin.NewStatsBuilder(h.engine.Statistics(), h.engine.Settings(), h.names).Build())
}
