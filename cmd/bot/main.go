package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/vouchbot/internal/bot"
	"github.com/robalyx/vouchbot/internal/setup"
	"github.com/robalyx/vouchbot/internal/setup/telemetry"
	"github.com/robalyx/vouchbot/internal/status"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"

	// shutdownTimeout bounds the graceful shutdown of the status server.
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "bot",
		Usage: "Start the vouch bot and its status server",
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
			&cli.BoolFlag{
				Name:  "console",
				Usage: "Mirror logs to the console",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "no-status",
				Usage: "Do not start the status server",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runBot(ctx, setup.Options{
				ConfigPaths: c.StringSlice("config"),
				Console:     c.Bool("console"),
				Backend:     c.String("backend"),
			}, !c.Bool("no-status"))
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, os.Args)
}

// runBot runs the Discord bot and the status server until the context is cancelled.
func runBot(ctx context.Context, opts setup.Options, withStatus bool) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceBot, BotLogDir, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	botCfg := &app.Config.Bot

	discordBot, err := bot.New(botCfg, app.Engine, app.Clock, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		return discordBot.Run(ctx)
	})

	if withStatus && botCfg.Status.Enabled {
		server, err := status.NewServer(botCfg, app.Engine, discordBot, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to create status server: %w", err)
		}

		p.Go(func(context.Context) error {
			return server.Start()
		})

		p.Go(func(ctx context.Context) error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		})
	}

	app.Logger.Info("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	if err := p.Wait(); err != nil {
		app.Logger.Error("Bot stopped with error", zap.Error(err))
		return err
	}

	app.Logger.Info("Bot stopped")
	return nil
}
