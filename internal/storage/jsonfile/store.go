package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
)

// ErrUnsupportedVersion indicates a data file written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported data file version")

// Store keeps the ledger in a single JSON document.
// Writes go to a temporary file that is renamed over the data file.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// New creates a store backed by the file at path.
// The file is created on the first save.
func New(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.Named("jsonfile"),
	}
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the data file.
// A missing file yields an empty snapshot.
func (s *Store) Load(_ context.Context) (*reputation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("No existing data file, starting fresh", zap.String("path", s.path))
		return reputation.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	return decode(data)
}

// Save replaces the data file with the snapshot.
func (s *Store) Save(_ context.Context, snapshot *reputation.Snapshot) error {
	data, err := sonic.ConfigDefault.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}

	s.logger.Debug("Data saved",
		zap.String("path", s.path),
		zap.Int("users", len(snapshot.Balances)))

	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error {
	return nil
}

// decode accepts the versioned format and the legacy unversioned format.
func decode(data []byte) (*reputation.Snapshot, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := sonic.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}

	switch {
	case probe.Version == 0:
		return decodeLegacy(data)
	case probe.Version > reputation.SnapshotVersion:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, probe.Version)
	}

	snapshot := reputation.NewSnapshot()
	if err := sonic.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}
	snapshot.Version = reputation.SnapshotVersion

	// Explicit nulls in the document clear the maps
	if snapshot.Balances == nil {
		snapshot.Balances = []reputation.BalanceEntry{}
	}
	if snapshot.Histories == nil {
		snapshot.Histories = make(map[reputation.UserID][]reputation.VouchRecord)
	}
	if snapshot.Cooldowns == nil {
		snapshot.Cooldowns = make(map[reputation.UserID]time.Time)
	}

	return snapshot, nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	temp, err := os.CreateTemp(dir, ".reputation-*.tmp")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}

	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, path)
}
