package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("sqlite store is closed")

const schema = `
CREATE TABLE IF NOT EXISTS balances (
	user_id INTEGER PRIMARY KEY,
	points INTEGER NOT NULL CHECK (points >= 0),
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vouches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	target_id INTEGER NOT NULL,
	voucher_id INTEGER NOT NULL,
	reason TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	rep_amount INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vouches_target ON vouches (target_id, id);

CREATE TABLE IF NOT EXISTS cooldowns (
	user_id INTEGER PRIMARY KEY,
	last_vouch INTEGER NOT NULL
);
`

// Store keeps the ledger in a SQLite database.
// A single connection is shared and serialized by the store's mutex.
type Store struct {
	mu     sync.Mutex
	conn   *sqlite.Conn
	logger *zap.Logger
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite|sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	err = sqlitex.ExecuteTransient(conn, fmt.Sprintf("PRAGMA user_version = %d", reputation.SnapshotVersion), nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set schema version: %w", err)
	}

	return &Store{
		conn:   conn,
		logger: logger.Named("sqlite"),
	}, nil
}

// Load reads every table into a snapshot.
func (s *Store) Load(_ context.Context) (*reputation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrClosed
	}

	snapshot := reputation.NewSnapshot()

	err := sqlitex.Execute(s.conn, "SELECT user_id, points FROM balances ORDER BY position", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			snapshot.Balances = append(snapshot.Balances, reputation.BalanceEntry{
				UserID: reputation.UserID(stmt.ColumnInt64(0)),
				Points: stmt.ColumnInt64(1),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}

	err = sqlitex.Execute(s.conn, `
		SELECT target_id, voucher_id, reason, created_at, rep_amount
		FROM vouches ORDER BY target_id, id
	`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			target := reputation.UserID(stmt.ColumnInt64(0))
			snapshot.Histories[target] = append(snapshot.Histories[target], reputation.VouchRecord{
				Voucher:   reputation.UserID(stmt.ColumnInt64(1)),
				Reason:    stmt.ColumnText(2),
				Timestamp: time.Unix(0, stmt.ColumnInt64(3)).UTC(),
				RepAmount: stmt.ColumnInt64(4),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load vouches: %w", err)
	}

	err = sqlitex.Execute(s.conn, "SELECT user_id, last_vouch FROM cooldowns", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			snapshot.Cooldowns[reputation.UserID(stmt.ColumnInt64(0))] = time.Unix(0, stmt.ColumnInt64(1)).UTC()
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cooldowns: %w", err)
	}

	return snapshot, nil
}

// Save replaces the contents of every table inside one transaction.
func (s *Store) Save(_ context.Context, snapshot *reputation.Snapshot) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrClosed
	}

	// Begin transaction
	if err := sqlitex.Execute(s.conn, "BEGIN TRANSACTION", nil); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := sqlitex.Execute(s.conn, "ROLLBACK", nil); rbErr != nil {
				s.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
			}
		}
	}()

	for _, table := range []string{"balances", "vouches", "cooldowns"} {
		if err := sqlitex.Execute(s.conn, "DELETE FROM "+table, nil); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for position, entry := range snapshot.Balances {
		err := sqlitex.Execute(s.conn,
			"INSERT INTO balances (user_id, points, position) VALUES (?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{int64(entry.UserID), entry.Points, int64(position)}},
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	for target, records := range snapshot.Histories {
		for _, record := range records {
			err := sqlitex.Execute(s.conn, `
				INSERT INTO vouches (target_id, voucher_id, reason, created_at, rep_amount)
				VALUES (?, ?, ?, ?, ?)
			`, &sqlitex.ExecOptions{Args: []any{
				int64(target), int64(record.Voucher), record.Reason, record.Timestamp.UnixNano(), record.RepAmount,
			}})
			if err != nil {
				return fmt.Errorf("failed to insert vouch: %w", err)
			}
		}
	}

	for userID, at := range snapshot.Cooldowns {
		err := sqlitex.Execute(s.conn,
			"INSERT INTO cooldowns (user_id, last_vouch) VALUES (?, ?)",
			&sqlitex.ExecOptions{Args: []any{int64(userID), at.UnixNano()}},
		)
		if err != nil {
			return fmt.Errorf("failed to insert cooldown: %w", err)
		}
	}

	// Commit transaction
	if err := sqlitex.Execute(s.conn, "COMMIT", nil); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil

	return err
}
