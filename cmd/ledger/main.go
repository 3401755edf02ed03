package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robalyx/vouchbot/internal/setup"
	"github.com/robalyx/vouchbot/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
)

const (
	// LedgerLogDir specifies where ledger tool log files are stored.
	LedgerLogDir = "logs/ledger_logs"
)

var (
	// ErrUserRequired indicates a command was run without its USER_ID argument.
	ErrUserRequired = errors.New("USER_ID argument required")
	// ErrSameBackend indicates a migration whose source and target are the same backend.
	ErrSameBackend = errors.New("source and target backend are the same")
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "ledger",
		Usage: "Inspect and maintain the reputation ledger",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Directories searched for config files",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Override the configured storage backend",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show ledger statistics",
				Action: withApp(handleStats),
			},
			{
				Name:  "leaderboard",
				Usage: "Show one leaderboard page",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number, starting at 1"},
					&cli.IntFlag{Name: "size", Value: 10, Usage: "Entries per page"},
				},
				Action: withApp(handleLeaderboard),
			},
			{
				Name:      "history",
				Usage:     "Show the vouches received by a user",
				ArgsUsage: "USER_ID",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "Maximum vouches shown"},
				},
				Action: withApp(handleHistory),
			},
			{
				Name:      "reset-cooldown",
				Usage:     "Let a user vouch again immediately",
				ArgsUsage: "USER_ID",
				Action:    withApp(handleResetCooldown),
			},
			{
				Name:  "export",
				Usage: "Write the ledger to a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "export.json", Usage: "Output file"},
				},
				Action: withApp(handleExport),
			},
			{
				Name:  "import",
				Usage: "Replace the ledger with the content of a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Input file"},
				},
				Action: withApp(handleImport),
			},
			{
				Name:  "migrate",
				Usage: "Copy the ledger from the configured backend to another one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Required: true, Usage: "Target backend (json, sqlite, redis, postgres)"},
				},
				Action: withApp(handleMigrate),
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, os.Args)
}

// appAction is a command action that needs the initialized application.
type appAction func(ctx context.Context, c *cli.Command, app *setup.App) error

// withApp initializes the application around a command action.
func withApp(action appAction) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		app, err := setup.InitializeApp(ctx, telemetry.ServiceLedger, LedgerLogDir, setup.Options{
			ConfigPaths: c.Root().StringSlice("config"),
			Backend:     c.Root().String("backend"),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer app.Cleanup(context.Background())

		return action(ctx, c, app)
	}
}
