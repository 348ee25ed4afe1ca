package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/log"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

const usage = `usage: sl-migrate [command]

commands:
  up        apply all pending migrations (default)
  down      roll back the latest migration
  status    print the state of every migration
  version   print the current schema version`

func run() error {
	flag.Usage = func() { fmt.Fprintln(flag.CommandLine.Output(), usage) }
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if cfg.Log.Service == "" {
		cfg.Log.Service = "sl-migrate"
	}
	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	logger.InfoContext(ctx, "running database migration", slog.String("command", command))

	if err := db.Migrate(ctx, pgxPool, command, flag.Args()[min(1, flag.NArg()):]...); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	logger.InfoContext(ctx, "database migration completed", slog.String("command", command))

	return nil
}
