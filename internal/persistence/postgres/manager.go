package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Config holds database connection settings
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
	BatchSize       int
	Enabled         bool
}

// DefaultConfig returns pool defaults; persistence is off until enabled
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    60 * time.Second,
		BatchSize:       500,
		Enabled:         false,
	}
}

// Manager owns the connection pool
type Manager struct {
	db     *sqlx.DB
	config Config
}

// NewManager opens and pings the database. A disabled config yields a manager without a pool.
func NewManager(ctx context.Context, config Config) (*Manager, error) {
	if !config.Enabled {
		return &Manager{config: config}, nil
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("database DSN is required when enabled")
	}

	db, err := sqlx.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Manager{db: db, config: config}, nil
}

// NewManagerWithDB wraps an existing pool
func NewManagerWithDB(db *sqlx.DB, config Config) *Manager {
	config.Enabled = db != nil
	return &Manager{db: db, config: config}
}

// DB returns the pool, nil when disabled
func (m *Manager) DB() *sqlx.DB {
	return m.db
}

// IsEnabled reports whether a pool is available
func (m *Manager) IsEnabled() bool {
	return m.config.Enabled && m.db != nil
}

// Ping checks connectivity; a disabled manager is always healthy
func (m *Manager) Ping(ctx context.Context) error {
	if !m.IsEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout())
	defer cancel()
	return m.db.PingContext(ctx)
}

// Close releases the pool
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *Manager) timeout() time.Duration {
	if m.config.QueryTimeout <= 0 {
		return DefaultConfig().QueryTimeout
	}
	return m.config.QueryTimeout
}

func (m *Manager) batchSize() int {
	if m.config.BatchSize <= 0 {
		return DefaultConfig().BatchSize
	}
	return m.config.BatchSize
}
