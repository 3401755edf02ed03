package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/constants"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/metrics"
)

var (
	// ErrNotController indicates a button was pressed by someone other than the command user.
	ErrNotController = errors.New("not the command user")
	// ErrUnknownComponent indicates a custom ID with an unknown prefix or action.
	ErrUnknownComponent = errors.New("unknown component")
)

// HandleComponent handles a button press. Age is the time since the message
// holding the button was created and decides whether the button has expired.
func (h *Handler) HandleComponent(
	ctx context.Context, presser snowflake.ID, customID string, age time.Duration,
) (*Response, error) {
	id, err := utils.ParseCustomID(customID)
	if err != nil {
		return nil, err
	}

	if id.Owner != presser {
		return nil, ErrNotController
	}

	switch id.Prefix {
	case constants.LeaderboardCustomIDPrefix:
		return h.handleLeaderboardButton(id, age >= constants.PaginationTimeout)
	case constants.ClearRepCustomIDPrefix:
		if id.Action != constants.ConfirmAction && id.Action != constants.CancelAction {
			return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, customID)
		}

		// The owner may have changed since the prompt was created
		if err := h.Authorize(presser); err != nil {
			return nil, ErrNotController
		}

		metrics.ComponentsTotal.WithLabelValues(id.Prefix + "_" + id.Action).Inc()
		return h.ResolveClear(ctx, id.Action, snowflake.ID(id.Arg), age >= constants.ConfirmationTimeout), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, customID)
	}
}

// handleLeaderboardButton moves to the page carried by the button or deletes the leaderboard.
func (h *Handler) handleLeaderboardButton(id utils.CustomID, expired bool) (*Response, error) {
	switch id.Action {
	case constants.FirstPageAction, constants.PrevPageAction, constants.NextPageAction, constants.LastPageAction:
	case constants.DeleteAction:
		if !expired {
			metrics.ComponentsTotal.WithLabelValues(id.Prefix + "_" + id.Action).Inc()
			return &Response{Delete: true}, nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}

	metrics.ComponentsTotal.WithLabelValues(id.Prefix + "_" + id.Action).Inc()

	return &Response{Message: h.leaderboardPage(id.Owner, int(id.Arg), expired)}, nil
}
