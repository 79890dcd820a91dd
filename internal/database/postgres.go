// Package database opens the Postgres pool and applies schema migrations.
package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/config"
)

const applicationName = "greenpath-backend"

// PoolConfig builds the pool configuration.
// Simple protocol is required when connecting through PgBouncer (Supabase pooler on :6543).
func PoolConfig(dsn string, cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pcfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	if cfg.QueryTimeout > 0 {
		pcfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.QueryTimeout.Milliseconds(), 10)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pcfg.MinConns = cfg.MinConns
	if cfg.MaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.MaxLifetime
	}
	return pcfg, nil
}

// NewPool connects and pings the database
func NewPool(ctx context.Context, dsn string, cfg config.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	pcfg, err := PoolConfig(dsn, cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	log.Info("database connected",
		zap.String("host", pcfg.ConnConfig.Host),
		zap.String("database", pcfg.ConnConfig.Database),
		zap.Int32("max_conns", pcfg.MaxConns))
	return pool, nil
}
