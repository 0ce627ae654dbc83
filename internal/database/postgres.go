package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdle     time.Duration
	ConnMaxLifetime time.Duration
	ReadyTimeout    time.Duration
}

// NewPostgres opens a pool through the pgx stdlib driver and waits for the
// server to answer a ping, backing off between attempts.
func NewPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitReady(ctx, "postgres", cfg.ReadyTimeout, logger, db.PingContext); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// waitReady retries ping until it succeeds or timeout elapses. A zero timeout
// means 30 seconds.
func waitReady(ctx context.Context, name string, timeout time.Duration, logger *slog.Logger, ping func(context.Context) error) error {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	deadline := time.Now().Add(timeout)
	backoff := 500 * time.Millisecond
	for {
		err := ping(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("ping %s: %w", name, err)
		}
		logger.Warn(name+" not ready yet", slog.String("error", err.Error()), slog.Duration("retry_in", backoff))
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping %s: %w", name, ctx.Err())
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
}
