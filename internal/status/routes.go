package status

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Probes used by uptime monitors
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/ping", s.handleHealth)

	// Observability endpoints
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/stats", s.handleStats)

	// Public pages
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/leaderboard.png", s.handleLeaderboardChart)
}
