// Package status serves the public status page, health probes, statistics
// and Prometheus metrics of a running bot.
package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Presence describes the Discord connection of the bot for the status page.
type Presence interface {
	Online() bool
	GuildCount() int
	MemberCount() int
	Latency() time.Duration
	DisplayName(user reputation.UserID) (string, bool)
}

// Server is the HTTP status server.
type Server struct {
	echo     *echo.Echo
	config   *config.BotConfig
	engine   *reputation.Engine
	presence Presence
	page     *pageRenderer
	charts   singleflight.Group
	logger   *zap.Logger
}

// NewServer creates the status server with all routes registered.
func NewServer(
	cfg *config.BotConfig, engine *reputation.Engine, presence Presence, logger *zap.Logger,
) (*Server, error) {
	page, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	srv := &Server{
		echo:     e,
		config:   cfg,
		engine:   engine,
		presence: presence,
		page:     page,
		logger:   logger.Named("status"),
	}

	// Middleware, outermost first so recovered panics are still logged and counted
	e.Use(srv.requestLogger())
	e.Use(srv.countRequests)
	e.Use(middleware.Recover())

	// Register routes
	srv.registerRoutes()

	return srv, nil
}

// Start listens on the configured address and blocks until the server stops.
// A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	addr := s.config.Status.Address()
	s.logger.Info("Starting status server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping status server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}
