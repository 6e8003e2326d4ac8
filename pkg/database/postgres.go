package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/steamflip/pkg/config"
)

// DB wraps the pgxpool.Pool and provides additional functionality
// ⭐ SSOT: DB 연결은 이 패키지에서만 생성
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool
// ⭐ SSOT: 유일하게 pgxpool.New()를 호출하는 함수
func New(cfg *config.Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks if the database is accessible
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Bootstrap creates the schema if it does not exist yet. Safe to call on
// every startup.
func (db *DB) Bootstrap(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			name          TEXT NOT NULL,
			condition     TEXT NOT NULL,
			special_type  TEXT NOT NULL DEFAULT 'None',
			listings      DOUBLE PRECISION[] NOT NULL DEFAULT '{}',
			buy_order     DOUBLE PRECISION NOT NULL DEFAULT 0,
			sales_per_day DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_pulled_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (name, condition)
		)`,
		`CREATE TABLE IF NOT EXISTS sale_events (
			item_name  TEXT NOT NULL,
			condition  TEXT NOT NULL,
			sold_at    TIMESTAMPTZ NOT NULL,
			price      DOUBLE PRECISION NOT NULL,
			FOREIGN KEY (item_name, condition) REFERENCES items (name, condition) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sale_events_item ON sale_events (item_name, condition, sold_at)`,
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			run_id          UUID PRIMARY KEY,
			strategy        TEXT NOT NULL,
			params_hash     TEXT NOT NULL,
			started_at      TIMESTAMPTZ NOT NULL,
			duration_ms     BIGINT NOT NULL,
			purchase_count  INT NOT NULL,
			sold_phase1     INT NOT NULL,
			sold_phase2     INT NOT NULL,
			never_sold      INT NOT NULL,
			net_profit      DOUBLE PRECISION NOT NULL,
			realized_profit DOUBLE PRECISION NOT NULL,
			sunk_cost       DOUBLE PRECISION NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}

// HealthStatus represents the health status of the database
type HealthStatus struct {
	Healthy      bool          `json:"healthy"`
	Timestamp    time.Time     `json:"timestamp"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	Stats        PoolStats     `json:"stats"`
}

// PoolStats represents connection pool statistics
type PoolStats struct {
	AcquireCount  int64 `json:"acquire_count"`
	AcquiredConns int32 `json:"acquired_conns"`
	IdleConns     int32 `json:"idle_conns"`
	MaxConns      int32 `json:"max_conns"`
	TotalConns    int32 `json:"total_conns"`
}

// HealthCheck returns detailed health information about the database
func (db *DB) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Healthy:   false,
		Timestamp: time.Now(),
	}

	start := time.Now()
	if err := db.Pool.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status, err
	}
	status.ResponseTime = time.Since(start)
	status.Stats = db.Stats()
	status.Healthy = true
	return status, nil
}

// Stats returns the current pool statistics
func (db *DB) Stats() PoolStats {
	stats := db.Pool.Stat()
	return PoolStats{
		AcquireCount:  stats.AcquireCount(),
		AcquiredConns: stats.AcquiredConns(),
		IdleConns:     stats.IdleConns(),
		MaxConns:      stats.MaxConns(),
		TotalConns:    stats.TotalConns(),
	}
}
