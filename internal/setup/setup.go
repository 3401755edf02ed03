package setup

import (
	"context"
	"fmt"
	"log"

	"github.com/jonboulle/clockwork"
	"github.com/robalyx/vouchbot/internal/redis"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"github.com/robalyx/vouchbot/internal/setup/telemetry"
	"github.com/robalyx/vouchbot/internal/storage"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config        *config.Config     // Application configuration
	ConfigDir     string             // Directory the config files were loaded from
	Logger        *zap.Logger        // Main application logger
	StorageLogger *zap.Logger        // Storage-specific logger
	Clock         clockwork.Clock    // Clock used for cooldowns and timestamps
	Store         reputation.Store   // Persistence backend
	Ledger        *reputation.Ledger // Reputation ledger
	Engine        *reputation.Engine // Vouch engine
	RedisManager  *redis.Manager     // Redis connection manager
	LogManager    *telemetry.Manager // Log management system
	pprofServer   *pprofServer       // Debug HTTP server for pprof
	tracing       bool               // Whether uptrace was configured
}

// Options adjusts how the application is initialized.
type Options struct {
	// ConfigPaths overrides the default config search paths.
	ConfigPaths []string
	// Console mirrors log output to stderr.
	Console bool
	// Backend overrides the configured storage backend.
	Backend string
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(
	ctx context.Context, serviceType telemetry.ServiceType, logDir string, opts Options,
) (*App, error) {
	// Load app configuration
	var (
		cfg       *config.Config
		configDir string
		err       error
	)
	if len(opts.ConfigPaths) > 0 {
		cfg, configDir, err = config.LoadConfigFrom(opts.ConfigPaths)
	} else {
		cfg, configDir, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	if opts.Backend != "" {
		cfg.Common.Storage.Backend = opts.Backend
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug, opts.Console)

	logger, storageLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded configuration",
		zap.String("dir", configDir),
		zap.String("backend", cfg.Common.Storage.Backend),
		zap.String("session", logManager.GetCurrentSessionDir()))

	// Tracing is optional and only enabled with a DSN
	tracing := false
	if cfg.Common.Telemetry.UptraceDSN != "" {
		uptrace.ConfigureOpentelemetry(
			uptrace.WithDSN(cfg.Common.Telemetry.UptraceDSN),
			uptrace.WithServiceName(cfg.Common.Telemetry.ServiceName),
			uptrace.WithServiceVersion(config.RepositoryVersion),
			uptrace.WithDeploymentEnvironment(serviceType.String()),
		)
		tracing = true

		logger.Info("Configured OpenTelemetry export", zap.String("service", cfg.Common.Telemetry.ServiceName))
	}

	// Redis manager provides connection pools for the redis backend
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	// Open the persistence backend
	store, err := storage.Open(ctx, &cfg.Common, redisManager, storageLogger.Named("storage"))
	if err != nil {
		redisManager.Close()
		logManager.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	// Build the reputation core on top of the store
	clock := clockwork.NewRealClock()
	ledger := reputation.NewLedger(ctx, store, clock, logger)

	rep := cfg.Bot.Reputation
	engine := reputation.NewEngine(ledger, reputation.Settings{
		VouchRepAmount:    int64(rep.VouchRepAmount),
		VouchCooldown:     rep.VouchCooldown(),
		PrivilegedActorID: reputation.UserID(rep.PrivilegedActorID),
	}, logger)

	// Start pprof server if enabled
	var pprofSrv *pprofServer

	if cfg.Common.Debug.EnablePprof {
		srv, err := startPprofServer(cfg.Common.Debug.PprofPort, logger)
		if err != nil {
			logger.Error("Failed to start pprof server", zap.Error(err))
		} else {
			pprofSrv = srv

			logger.Warn("pprof debugging endpoint enabled - this should not be used in production!")
		}
	}

	// Bundle all initialized components
	return &App{
		Config:        cfg,
		ConfigDir:     configDir,
		Logger:        logger,
		StorageLogger: storageLogger.Named("storage"),
		Clock:         clock,
		Store:         store,
		Ledger:        ledger,
		Engine:        engine,
		RedisManager:  redisManager,
		LogManager:    logManager,
		pprofServer:   pprofSrv,
		tracing:       tracing,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	// Shutdown pprof server if running
	if s.pprofServer != nil {
		if err := s.pprofServer.srv.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown pprof server", zap.Error(err))
		}

		s.pprofServer.listener.Close()
	}

	// Close the store before the redis clients it may use
	if err := s.Store.Close(); err != nil {
		s.Logger.Error("Failed to close store", zap.Error(err))
	}

	s.RedisManager.Close()

	// Flush pending spans
	if s.tracing {
		if err := uptrace.Shutdown(ctx); err != nil {
			log.Printf("Failed to shutdown uptrace: %v", err)
		}
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.StorageLogger.Sync(); err != nil {
		log.Printf("Failed to sync storage logger: %v", err)
	}

	s.LogManager.Close()
}
