package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// DB wraps sqlx.DB with additional functionality. The embedded handle
// may be nil when no store is configured or the initial connection
// failed; callers must check Available before touching it. Reads
// degrade to empty results in that state, writes fail with
// STORE_UNAVAILABLE. The handle is established once at process start
// and never retried per-call.
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// Open establishes the store connection. It never fails: an absent
// connection string or a failed connect yields a handle-less DB, and
// the process runs in read-degraded mode.
func Open(cfg *config.DatabaseConfig, log *logger.Logger) *DB {
	if !cfg.Configured() {
		log.Warn().Msg("no database configured, running in read-degraded mode")
		return &DB{logger: log}
	}

	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		log.Warn().Err(err).Msg("database connection failed, running in read-degraded mode")
		return &DB{logger: log}
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &DB{
		DB:     db,
		logger: log,
	}
}

// NewFromHandle wraps an existing sqlx handle. Used by tests.
func NewFromHandle(db *sqlx.DB, log *logger.Logger) *DB {
	return &DB{DB: db, logger: log}
}

// Available reports whether a store handle exists.
func (db *DB) Available() bool {
	return db != nil && db.DB != nil
}

// RequireStore returns STORE_UNAVAILABLE when no handle exists.
// Write paths call this before executing any statement.
func (db *DB) RequireStore() error {
	if !db.Available() {
		return errors.StoreUnavailable()
	}
	return nil
}

// Ping checks the database connection
func (db *DB) Ping(ctx context.Context) error {
	if !db.Available() {
		return errors.StoreUnavailable()
	}
	return db.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	if !db.Available() {
		return nil
	}
	return db.DB.Close()
}

// Health returns the health status of the database
func (db *DB) Health(ctx context.Context) map[string]string {
	if !db.Available() {
		return map[string]string{
			"status": "degraded",
			"error":  "no store connection",
		}
	}

	status := map[string]string{
		"status": "up",
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
	}

	return status
}
