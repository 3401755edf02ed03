package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"github.com/robalyx/vouchbot/internal/setup/telemetry/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceType represents the type of service being initialized.
type ServiceType int

const (
	ServiceBot ServiceType = iota
	ServiceLedger
)

// String returns the component name used in log paths and traces.
func (s ServiceType) String() string {
	switch s {
	case ServiceBot:
		return "bot"
	case ServiceLedger:
		return "ledger"
	default:
		return "unknown"
	}
}

// Manager handles the creation of log files and session directories.
// Each program run writes into its own timestamped session directory.
type Manager struct {
	instanceID        string
	componentName     string
	currentSessionDir string
	logDir            string
	level             string
	maxLogsToKeep     int
	maxLogLines       int
	console           bool
	writers           []*logger.TailWriter
}

// NewManager creates a new Manager instance.
// Console output is mirrored to stderr when console is true.
func NewManager(serviceType ServiceType, logDir string, debugCfg *config.Debug, console bool) *Manager {
	return &Manager{
		instanceID:    uuid.New().String(),
		componentName: serviceType.String(),
		logDir:        logDir,
		level:         debugCfg.LogLevel,
		maxLogsToKeep: debugCfg.MaxLogsToKeep,
		maxLogLines:   debugCfg.MaxLogLines,
		console:       console,
	}
}

// GetLoggers initializes the main and storage loggers.
func (lm *Manager) GetLoggers() (*zap.Logger, *zap.Logger, error) {
	if err := lm.setupLogDirectories(); err != nil {
		return nil, nil, err
	}

	mainLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "main.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize main logger: %w", err)
	}

	storageLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "storage.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage logger: %w", err)
	}

	return mainLogger, storageLogger, nil
}

// GetInstanceID returns the unique instance identifier for this program run.
func (lm *Manager) GetInstanceID() string {
	return lm.instanceID
}

// GetCurrentSessionDir returns the directory of the current log session.
func (lm *Manager) GetCurrentSessionDir() string {
	return lm.currentSessionDir
}

// Close closes every log file opened by the manager.
func (lm *Manager) Close() {
	for _, writer := range lm.writers {
		writer.Sync()
		writer.Close()
	}
	lm.writers = nil
}

// setupLogDirectories ensures the base directory exists, rotates old
// sessions and creates a new session directory.
func (lm *Manager) setupLogDirectories() error {
	if err := os.MkdirAll(lm.logDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if err := lm.rotateLogSessions(); err != nil {
		return fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	lm.currentSessionDir = filepath.Join(lm.logDir, time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(lm.currentSessionDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	return nil
}

// initLogger creates a zap logger writing to path, the console and traces.
func (lm *Manager) initLogger(path string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(lm.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	writer, err := logger.NewTailWriter(path, lm.maxLogLines)
	if err != nil {
		return nil, err
	}
	lm.writers = append(lm.writers, writer)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(writer), zapLevel),
		NewCore(zapLevel),
	}

	if lm.console {
		consoleConfig := encoderConfig
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), zapLevel,
		))
	}

	return zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("component", lm.componentName),
			zap.String("instance", lm.instanceID),
		),
	), nil
}

// rotateLogSessions removes the oldest sessions beyond maxLogsToKeep,
// leaving room for the session about to be created.
func (lm *Manager) rotateLogSessions() error {
	sessions, err := filepath.Glob(filepath.Join(lm.logDir, "*"))
	if err != nil {
		return err
	}

	keep := max(lm.maxLogsToKeep-1, 0)
	if len(sessions) <= keep {
		return nil
	}

	// Oldest first
	sort.Slice(sessions, func(i, j int) bool {
		iInfo, _ := os.Stat(sessions[i])
		jInfo, _ := os.Stat(sessions[j])

		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	for _, session := range sessions[:len(sessions)-keep] {
		if err := os.RemoveAll(session); err != nil {
			return err
		}
	}

	return nil
}
