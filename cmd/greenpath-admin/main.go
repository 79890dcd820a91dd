// Command greenpath-admin runs maintenance tasks against the GreenPath database.
package main

import (
	"context"
	"fmt"
	"os"

	"GREENPATH_BACK-END/internal/config"
	"GREENPATH_BACK-END/internal/database"
	"GREENPATH_BACK-END/internal/logger"
	"GREENPATH_BACK-END/internal/repository"
)

func main() {
	if err := newRootCmd(openPostgres).Execute(); err != nil {
		os.Exit(1)
	}
}

// openPostgres connects with the server's configuration
func openPostgres(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	pool, err := database.NewPool(ctx, cfg.GetDSN(), cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &deps{
		roles: repository.NewProfileRepository(pool),
		posts: repository.NewWastePostRepository(pool),
		migrate: func(ctx context.Context, command string, args ...string) error {
			return database.RunMigrations(ctx, pool, command, args...)
		},
		status: func(ctx context.Context) ([]database.MigrationState, error) {
			return database.MigrationStatus(ctx, pool)
		},
		close: func() {
			pool.Close()
			_ = log.Sync()
		},
		log: log,
	}, nil
}
