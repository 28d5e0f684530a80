// Package database wraps the single, always-on PostgreSQL connection
// pool the scheduler uses.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PoolConfig configures the pool's sizing and lifetime.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns sizing defaults for a single
// batch-processing connection pool.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// ConnectionPoolStats mirrors database/sql.DBStats for callers that
// don't want to import database/sql directly.
type ConnectionPoolStats struct {
	OpenConnections int
	InUse           int
	Idle            int
	MaxOpen         int
	WaitCount       int64
	WaitDuration    time.Duration
}

// Open opens and verifies a connection pool to dsn, applying cfg's
// sizing. Callers are responsible for calling Close on the result.
func Open(ctx context.Context, dsn string, cfg PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Stats reports the pool's current connection usage.
func Stats(db *sql.DB) ConnectionPoolStats {
	s := db.Stats()
	return ConnectionPoolStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		MaxOpen:         s.MaxOpenConnections,
		WaitCount:       s.WaitCount,
		WaitDuration:    s.WaitDuration,
	}
}
