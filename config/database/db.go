package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todolist/config"
	"todolist/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// RetryInterval is the pause between startup connectivity checks.
var RetryInterval = 2 * time.Second

// Open creates the connection pool without touching the network.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", cfg.Driver, err)
	}
	Configure(db, cfg)
	return db, nil
}

// Configure applies the pool bounds. database/sql has no minimum-idle knob,
// so the idle set is allowed to hold at least MinConns and Warm fills it.
func Configure(db *sql.DB, cfg config.DBConfig) {
	idle := cfg.MinConns
	if idle < 1 {
		idle = 1
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(idle)
	db.SetConnMaxIdleTime(cfg.IdleTimeout)
}

// Connect opens the pool and pings it, retrying a few times in case of
// temporary DNS/network blips. The pool is returned even when every ping
// failed so the caller can decide whether to serve without a database.
func Connect(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	for i := 1; i <= cfg.ConnectRetries; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Sugar.Infof("Successfully connected to the database at %s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
			Warm(ctx, db, cfg.MinConns)
			return db, nil
		}
		if i == cfg.ConnectRetries {
			break
		}
		logger.Sugar.Warnf("Database connection failed (attempt %d/%d), retrying in %s... (%v)", i, cfg.ConnectRetries, RetryInterval, err)
		select {
		case <-ctx.Done():
			return db, ctx.Err()
		case <-time.After(RetryInterval):
		}
	}
	return db, fmt.Errorf("could not connect to database after %d attempts: %w", cfg.ConnectRetries, err)
}

// Warm checks out n connections at once and releases them, leaving n idle
// connections in the pool.
func Warm(ctx context.Context, db *sql.DB, n int) {
	conns := make([]*sql.Conn, 0, n)
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	for i := 0; i < n; i++ {
		c, err := db.Conn(ctx)
		if err != nil {
			logger.Sugar.Warnf("Pool warm-up stopped at %d/%d connections: %v", i, n, err)
			return
		}
		conns = append(conns, c)
	}
}
