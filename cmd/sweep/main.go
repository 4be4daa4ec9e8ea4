// Command sweep deletes expired magic links and system logs past retention.
// It is meant to run from cron.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/polito-log/backend/internal/config"
	"github.com/polito-log/backend/internal/database"
	"github.com/polito-log/backend/internal/logging"
	"github.com/polito-log/backend/internal/repositories"
	"gorm.io/gorm"
)

func main() {
	os.Exit(sweep())
}

func sweep() int {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		return 1
	}
	return sweepDB(cfg, db, time.Now())
}

// sweepDB runs one sweep and closes db before returning the exit code.
func sweepDB(cfg *config.Config, db *gorm.DB, now time.Time) int {
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purge := func(ctx context.Context, cutoff time.Time) (int64, error) {
		return logging.PurgeSystemLogs(ctx, db, cutoff)
	}
	if err := run(ctx, cfg, repositories.NewMagicLinkRepository(db), purge, now); err != nil {
		slog.Error("sweep failed", "error", err)
		return 1
	}
	return 0
}

type expiredLinkDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func run(
	ctx context.Context,
	cfg *config.Config,
	links expiredLinkDeleter,
	purgeLogs func(ctx context.Context, cutoff time.Time) (int64, error),
	now time.Time,
) error {
	deleted, err := links.DeleteExpired(ctx, now)
	if err != nil {
		return err
	}
	slog.Info("expired magic links deleted", "count", deleted)

	purged, err := purgeLogs(ctx, now.Add(-cfg.LogRetention))
	if err != nil {
		return err
	}
	slog.Info("system logs purged", "count", purged, "retention", cfg.LogRetention.String())
	return nil
}
