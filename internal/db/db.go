package db

import (
	"context"
	"fmt"
	"time"

	"bizadmin/internal/config"
	"bizadmin/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewPool opens a pgx pool for cfg and verifies it with a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %s", logging.SanitizeError(err))
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %s", logging.SanitizeError(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %s", logging.SanitizeError(err))
	}

	if logger != nil {
		logger.Info("database pool ready",
			zap.String("database", logging.SanitizeConnectionString(cfg.URL)),
			zap.Int32("max_conns", poolCfg.MaxConns),
			zap.Int32("min_conns", poolCfg.MinConns),
		)
	}
	return pool, nil
}
