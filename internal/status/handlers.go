package status

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
)

// healthMessage is the body returned by the health probes.
const healthMessage = "Bot Online!"

// statsResponse is the body of /stats.
type statsResponse struct {
	Online               bool  `json:"online"`
	Servers              int   `json:"servers"`
	Users                int   `json:"users"`
	TotalUsersWithRep    int   `json:"total_users_with_rep"`
	TotalReputation      int64 `json:"total_reputation"`
	TotalVouches         int   `json:"total_vouches"`
	ActiveCooldowns      int   `json:"active_cooldowns"`
	Latency              int64 `json:"latency"`
	VouchAmount          int64 `json:"vouch_amount"`
	VouchCooldownMinutes int64 `json:"vouch_cooldown_minutes"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, healthMessage)
}

func (s *Server) handleStats(c echo.Context) error {
	stats := s.engine.Statistics()
	settings := s.engine.Settings()

	return c.JSON(http.StatusOK, statsResponse{
		Online:               s.presence.Online(),
		Servers:              s.presence.GuildCount(),
		Users:                s.presence.MemberCount(),
		TotalUsersWithRep:    stats.TotalUsers,
		TotalReputation:      stats.TotalReputation,
		TotalVouches:         stats.TotalVouches,
		ActiveCooldowns:      stats.ActiveCooldowns,
		Latency:              s.presence.Latency().Milliseconds(),
		VouchAmount:          settings.VouchRepAmount,
		VouchCooldownMinutes: int64(settings.VouchCooldown / time.Minute),
	})
}

func (s *Server) handleIndex(c echo.Context) error {
	stats := s.engine.Statistics()
	settings := s.engine.Settings()

	var buf bytes.Buffer
	err := s.page.Render(&buf, pageData{
		Online:          s.presence.Online(),
		Servers:         s.presence.GuildCount(),
		TotalUsers:      stats.TotalUsers,
		TotalReputation: stats.TotalReputation,
		LatencyMS:       s.presence.Latency().Milliseconds(),
		VouchAmount:     settings.VouchRepAmount,
		CooldownMinutes: int64(settings.VouchCooldown / time.Minute),
		HasChart:        stats.TotalReputation > 0,
	})
	if err != nil {
		s.logger.Error("Failed to render status page", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render status page")
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleLeaderboardChart(c echo.Context) error {
	// Concurrent requests share one render
	v, err, _ := s.charts.Do("leaderboard", func() (any, error) {
		standings, _, _ := s.engine.Ledger().LeaderboardPage(0, s.config.Status.ChartUsers)

		buf, err := NewChartBuilder(standings, s.chartLabel).Build()
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if errors.Is(err, ErrNoChartData) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		s.logger.Error("Failed to render leaderboard chart", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render chart")
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, "image/png", v.([]byte))
}

// chartLabel prefers the member's display name and falls back to the raw id.
func (s *Server) chartLabel(user reputation.UserID) string {
	if name, ok := s.presence.DisplayName(user); ok {
		return name
	}
	return strconv.FormatUint(uint64(user), 10)
}
