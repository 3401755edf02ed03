package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/vouchbot/internal/bot/utils"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup"
	"github.com/robalyx/vouchbot/internal/storage"
	"github.com/robalyx/vouchbot/internal/storage/jsonfile"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// handleStats prints the ledger statistics.
func handleStats(_ context.Context, _ *cli.Command, app *setup.App) error {
	stats := app.Engine.Statistics()
	settings := app.Engine.Settings()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Backend:\t%s\n", app.Config.Common.Storage.Backend)
	fmt.Fprintf(w, "Total users:\t%d\n", stats.TotalUsers)
	fmt.Fprintf(w, "Total reputation:\t%s\n", utils.FormatNumber(stats.TotalReputation))
	fmt.Fprintf(w, "Total vouches:\t%d\n", stats.TotalVouches)
	fmt.Fprintf(w, "Active cooldowns:\t%d\n", stats.ActiveCooldowns)
	fmt.Fprintf(w, "Vouch amount:\t%d\n", settings.VouchRepAmount)
	fmt.Fprintf(w, "Vouch cooldown:\t%s\n", utils.FormatMinutes(settings.VouchCooldown))
	if stats.Top != nil {
		fmt.Fprintf(w, "Top user:\t%d (%s)\n", stats.Top.UserID, utils.FormatNumber(stats.Top.Points))
	}

	return w.Flush()
}

// handleLeaderboard prints one leaderboard page.
func handleLeaderboard(_ context.Context, c *cli.Command, app *setup.App) error {
	size := int(c.Int("size"))
	standings, page, totalPages := app.Ledger.LeaderboardPage(int(c.Int("page"))-1, size)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tPOINTS")
	for i, standing := range standings {
		fmt.Fprintf(w, "%d\t%d\t%s\n", page*size+i+1, standing.UserID, utils.FormatNumber(standing.Points))
	}
	fmt.Fprintf(w, "\nPage %d/%d | Total Users: %d\n", page+1, totalPages, app.Ledger.TotalUsers())

	return w.Flush()
}

// handleHistory prints the vouches received by a user, newest first.
func handleHistory(_ context.Context, c *cli.Command, app *setup.App) error {
	user, err := userArg(c)
	if err != nil {
		return err
	}

	records := app.Ledger.VouchHistory(user, int(c.Int("limit")))
	if len(records) == 0 {
		fmt.Println("No vouches yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE (UTC)\tVOUCHER\tREP\tREASON")
	for _, record := range records {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			utils.FormatTimestamp(record.Timestamp),
			record.Voucher,
			utils.FormatSigned(record.RepAmount),
			utils.NormalizeString(record.Reason))
	}
	fmt.Fprintf(w, "\nTotal reputation: %s\n", utils.FormatNumber(app.Ledger.GetReputation(user)))

	return w.Flush()
}

// handleResetCooldown removes the cooldown of a user.
func handleResetCooldown(ctx context.Context, c *cli.Command, app *setup.App) error {
	user, err := userArg(c)
	if err != nil {
		return err
	}

	existed, err := app.Engine.ResetCooldown(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to reset cooldown: %w", err)
	}

	if !existed {
		fmt.Printf("User %d does not have an active cooldown\n", user)
		return nil
	}

	app.Logger.Info("Cooldown reset from ledger tool", zap.Uint64("userID", uint64(user)))
	fmt.Printf("Reset the vouch cooldown of user %d\n", user)
	return nil
}

// handleExport writes the ledger snapshot in the JSON store format.
func handleExport(ctx context.Context, c *cli.Command, app *setup.App) error {
	output := c.String("output")
	snapshot := app.Ledger.Snapshot()

	if err := jsonfile.New(output, app.StorageLogger).Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}

	app.Logger.Info("Exported ledger",
		zap.String("output", output),
		zap.Int("users", len(snapshot.Balances)))
	fmt.Printf("Exported %d users to %s\n", len(snapshot.Balances), output)
	return nil
}

// handleImport replaces the stored ledger with a JSON file.
func handleImport(ctx context.Context, c *cli.Command, app *setup.App) error {
	input := c.String("input")

	snapshot, err := jsonfile.New(input, app.StorageLogger).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	if err := app.Store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to import ledger: %w", err)
	}

	app.Logger.Info("Imported ledger",
		zap.String("input", input),
		zap.Int("users", len(snapshot.Balances)))
	fmt.Printf("Imported %d users from %s\n", len(snapshot.Balances), input)
	return nil
}

// handleMigrate copies the ledger into another backend.
func handleMigrate(ctx context.Context, c *cli.Command, app *setup.App) error {
	target := c.String("to")
	if target == app.Config.Common.Storage.Backend {
		return fmt.Errorf("%w: %s", ErrSameBackend, target)
	}

	store, err := storage.OpenBackend(ctx, target, &app.Config.Common, app.RedisManager, app.StorageLogger)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot := app.Ledger.Snapshot()
	if err := store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to write %s store: %w", target, err)
	}

	app.Logger.Info("Migrated ledger",
		zap.String("from", app.Config.Common.Storage.Backend),
		zap.String("to", target),
		zap.Int("users", len(snapshot.Balances)))
	fmt.Printf("Migrated %d users from %s to %s\n", len(snapshot.Balances), app.Config.Common.Storage.Backend, target)
	return nil
}

// userArg parses the USER_ID argument.
func userArg(c *cli.Command) (reputation.UserID, error) {
	if c.Args().Len() < 1 {
		return 0, ErrUserRequired
	}

	id, err := snowflake.Parse(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %w", err)
	}

	return reputation.UserID(id), nil
}
