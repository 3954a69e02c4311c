// Command migrate applies the embedded goose migrations to the configured
// PostgreSQL database.
//
// Usage: migrate [up|down|status]   (default: up)
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/creditdispute-backend/internal/app"
	"github.com/heartmarshall/creditdispute-backend/internal/config"
	"github.com/heartmarshall/creditdispute-backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(command, cfg.Database.DSN); err != nil {
		logger.Error("migrate failed", slog.String("command", command), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("migrate completed", slog.String("command", command))
}

func run(command, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("database.dsn is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		for _, r := range results {
			slog.Info("migration applied", slog.Int64("version", r.Source.Version), slog.Duration("duration", r.Duration))
		}
		return err
	case "down":
		r, err := provider.Down(ctx)
		if r != nil {
			slog.Info("migration rolled back", slog.Int64("version", r.Source.Version))
		}
		return err
	case "status":
		statuses, err := provider.Status(ctx)
		for _, st := range statuses {
			slog.Info("migration status", slog.Int64("version", st.Source.Version), slog.String("state", string(st.State)))
		}
		return err
	}
	return fmt.Errorf("unknown command %q (want up, down or status)", command)
}
