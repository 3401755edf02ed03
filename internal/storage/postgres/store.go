package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"github.com/robalyx/vouchbot/internal/storage/postgres/migrations"
	"github.com/robalyx/vouchbot/internal/storage/postgres/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunotel"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// Store keeps the ledger in three PostgreSQL tables.
type Store struct {
	db     *bun.DB
	logger *zap.Logger
}

// Open establishes a connection pool and applies pending migrations.
func Open(ctx context.Context, cfg *config.PostgreSQL, logger *zap.Logger) (*Store, error) {
	logger = logger.Named("postgres")

	// Initialize database connection with config values
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.DBName),
		pgdriver.WithInsecure(true),
		pgdriver.WithApplicationName("vouchbot"),
	))

	// Set connection pool settings
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqldb.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(NewHook(logger))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.DBName)))

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connection established")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// runMigrations applies every unapplied migration.
func runMigrations(ctx context.Context, db *bun.DB, logger *zap.Logger) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if !group.IsZero() {
		logger.Info("Automatically ran migrations", zap.String("group", group.String()))
	}

	return nil
}

// Load reads all three tables.
func (s *Store) Load(ctx context.Context) (*reputation.Snapshot, error) {
	var (
		balances  []models.Balance
		vouches   []models.Vouch
		cooldowns []models.Cooldown
	)

	if err := s.db.NewSelect().Model(&balances).Order("position ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}

	if err := s.db.NewSelect().Model(&vouches).Order("target_id ASC", "id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load vouches: %w", err)
	}

	if err := s.db.NewSelect().Model(&cooldowns).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load cooldowns: %w", err)
	}

	snapshot := reputation.NewSnapshot()

	for _, balance := range balances {
		snapshot.Balances = append(snapshot.Balances, reputation.BalanceEntry{
			UserID: reputation.UserID(balance.UserID),
			Points: balance.Points,
		})
	}

	for _, vouch := range vouches {
		target := reputation.UserID(vouch.TargetID)
		snapshot.Histories[target] = append(snapshot.Histories[target], reputation.VouchRecord{
			Voucher:   reputation.UserID(vouch.VoucherID),
			Reason:    vouch.Reason,
			Timestamp: vouch.CreatedAt.UTC(),
			RepAmount: vouch.RepAmount,
		})
	}

	for _, cooldown := range cooldowns {
		snapshot.Cooldowns[reputation.UserID(cooldown.UserID)] = cooldown.LastVouch.UTC()
	}

	return snapshot, nil
}

// Save replaces the contents of all three tables in one transaction.
func (s *Store) Save(ctx context.Context, snapshot *reputation.Snapshot) error {
	balances, vouches, cooldowns := toRows(snapshot)

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		tables := []any{(*models.Balance)(nil), (*models.Vouch)(nil), (*models.Cooldown)(nil)}
		for _, model := range tables {
			if _, err := tx.NewDelete().Model(model).Where("TRUE").Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear table for %T: %w", model, err)
			}
		}

		if len(balances) > 0 {
			if _, err := tx.NewInsert().Model(&balances).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert balances: %w", err)
			}
		}

		if len(vouches) > 0 {
			if _, err := tx.NewInsert().Model(&vouches).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert vouches: %w", err)
			}
		}

		if len(cooldowns) > 0 {
			if _, err := tx.NewInsert().Model(&cooldowns).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert cooldowns: %w", err)
			}
		}

		return nil
	})
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// toRows flattens a snapshot into table rows.
// Records of one target are emitted oldest first so that the serial ids
// preserve history order. Instants are cut to the microsecond precision of
// timestamptz.
func toRows(snapshot *reputation.Snapshot) ([]models.Balance, []models.Vouch, []models.Cooldown) {
	balances := make([]models.Balance, 0, len(snapshot.Balances))
	for position, entry := range snapshot.Balances {
		balances = append(balances, models.Balance{
			UserID:   int64(entry.UserID),
			Points:   entry.Points,
			Position: int64(position),
		})
	}

	var vouches []models.Vouch
	for target, records := range snapshot.Histories {
		for _, record := range records {
			vouches = append(vouches, models.Vouch{
				TargetID:  int64(target),
				VoucherID: int64(record.Voucher),
				Reason:    record.Reason,
				CreatedAt: record.Timestamp.Truncate(time.Microsecond),
				RepAmount: record.RepAmount,
			})
		}
	}

	cooldowns := make([]models.Cooldown, 0, len(snapshot.Cooldowns))
	for userID, at := range snapshot.Cooldowns {
		cooldowns = append(cooldowns, models.Cooldown{
			UserID:    int64(userID),
			LastVouch: at.Truncate(time.Microsecond),
		})
	}

	return balances, vouches, cooldowns
}
