package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/vouchbot/internal/storage/postgres/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []any{
			(*models.Balance)(nil),
			(*models.Vouch)(nil),
			(*models.Cooldown)(nil),
		}

		for _, model := range tables {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		_, err := db.NewCreateIndex().
			Model((*models.Vouch)(nil)).
			Index("idx_vouches_target").
			Column("target_id", "id").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create vouch index: %w", err)
		}

		constraints := []string{
			"ALTER TABLE balances DROP CONSTRAINT IF EXISTS balances_points_check",
			"ALTER TABLE balances ADD CONSTRAINT balances_points_check CHECK (points >= 0)",
		}
		for _, query := range constraints {
			if _, err := db.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("failed to add balance constraint: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []any{
			(*models.Cooldown)(nil),
			(*models.Vouch)(nil),
			(*models.Balance)(nil),
		}

		for _, model := range tables {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table for %T: %w", model, err)
			}
		}

		return nil
	})
}
