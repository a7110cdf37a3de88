// Package database provides the storage layer for crmdesk diagnostics.
//
// It implements the Store interface using SQLite in WAL mode. The schema
// is owned by the embedded migrations and applied with golang-migrate when
// the service opens. DBService is the primary entry point for all
// database operations.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store defines the interface for render-failure persistence.
type Store interface {
	// InsertFailure persists one captured render failure.
	InsertFailure(f *Failure) error
	// BatchInsertFailures inserts multiple failures in a single transaction.
	BatchInsertFailures(fs []*Failure) error

	// QueryFailures returns failures matching the filter, newest first.
	QueryFailures(filter FailureFilter) ([]*Failure, error)
	// GetViewStats returns per-view aggregates, most failures first.
	GetViewStats() ([]*ViewStats, error)

	// PruneFailures deletes failures that occurred before the given
	// Unix-nanosecond timestamp and returns how many were removed.
	PruneFailures(before int64) (int64, error)

	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// Domain Models
// ============================================================

// Failure is the persisted form of a captured render failure.
type Failure struct {
	FailureID  string  `json:"failure_id"`
	SessionID  string  `json:"session_id,omitempty"`
	View       string  `json:"view"`
	Message    string  `json:"message"`
	Panicked   bool    `json:"panicked"`
	Stack      *string `json:"stack,omitempty"`
	OccurredAt int64   `json:"occurred_at"` // Unix nanoseconds
}

// FailureFilter defines query parameters for failure listing.
type FailureFilter struct {
	View      *string `json:"view,omitempty"`
	SessionID *string `json:"session_id,omitempty"`
	Since     *int64  `json:"since,omitempty"` // Unix nanoseconds
	Until     *int64  `json:"until,omitempty"` // Unix nanoseconds
	Limit     int     `json:"limit"` // 0 means 100, negative means no limit
	Offset    int     `json:"offset"`
}

// ViewStats holds aggregated failure counts for one view.
type ViewStats struct {
	View      string `json:"view"`
	Failures  int    `json:"failures"`
	Panics    int    `json:"panics"`
	Sessions  int    `json:"sessions"`
	FirstSeen int64  `json:"first_seen"`
	LastSeen  int64  `json:"last_seen"`
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements the Store interface using SQLite.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	stmtInsertFailure *sql.Stmt
}

// NewDBService opens the database, applies pending migrations and
// prepares frequently-used statements.
//
// Use ":memory:" for an in-memory database (useful for testing).
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// SQLite only supports one writer at a time, and ":memory:" databases
	// live on a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{
		db:   db,
		path: path,
	}

	if err := svc.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}

	return svc, nil
}

// migrate applies every embedded up migration that has not run yet.
func (s *DBService) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}
	defer src.Close()

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	// m.Close would also close s.db, so the instance is simply dropped.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtInsertFailure, err = s.db.Prepare(`
		INSERT INTO render_failures (failure_id, session_id, view, message, panicked, stack, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(failure_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertFailure: %w", err)
	}

	return nil
}

// InsertFailure persists a captured failure. Re-inserting the same ID is a
// no-op.
func (s *DBService) InsertFailure(f *Failure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stmtInsertFailure.Exec(failureArgs(f)...); err != nil {
		return fmt.Errorf("inserting failure %s: %w", f.FailureID, err)
	}
	return nil
}

// BatchInsertFailures inserts multiple failures within a single transaction.
func (s *DBService) BatchInsertFailures(fs []*Failure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch failure transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt := tx.Stmt(s.stmtInsertFailure)
	for _, f := range fs {
		if _, err := stmt.Exec(failureArgs(f)...); err != nil {
			return fmt.Errorf("batch inserting failure %s: %w", f.FailureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch failure transaction: %w", err)
	}
	return nil
}

// QueryFailures returns failures matching the filter, ordered by
// occurred_at descending.
func (s *DBService) QueryFailures(filter FailureFilter) ([]*Failure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT failure_id, session_id, view, message, panicked, stack, occurred_at
		FROM render_failures WHERE 1=1`
	args := make([]any, 0)

	if filter.View != nil {
		query += ` AND view = ?`
		args = append(args, *filter.View)
	}
	if filter.SessionID != nil {
		query += ` AND session_id = ?`
		args = append(args, *filter.SessionID)
	}
	if filter.Since != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		query += ` AND occurred_at <= ?`
		args = append(args, *filter.Until)
	}

	query += ` ORDER BY occurred_at DESC, failure_id`

	switch {
	case filter.Limit > 0:
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	case filter.Limit < 0:
		// SQLite needs a LIMIT before OFFSET; -1 means unbounded.
		query += ` LIMIT -1`
	default:
		query += ` LIMIT 100`
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var out []*Failure
	for rows.Next() {
		f := &Failure{}
		if err := rows.Scan(&f.FailureID, &f.SessionID, &f.View, &f.Message,
			&f.Panicked, &f.Stack, &f.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning failure row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetViewStats aggregates failures per view.
func (s *DBService) GetViewStats() ([]*ViewStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT
			view,
			COUNT(*) AS failures,
			COALESCE(SUM(panicked), 0) AS panics,
			COUNT(DISTINCT session_id) AS sessions,
			MIN(occurred_at) AS first_seen,
			MAX(occurred_at) AS last_seen
		FROM render_failures
		GROUP BY view
		ORDER BY failures DESC, view ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying view stats: %w", err)
	}
	defer rows.Close()

	var stats []*ViewStats
	for rows.Next() {
		vs := &ViewStats{}
		if err := rows.Scan(&vs.View, &vs.Failures, &vs.Panics, &vs.Sessions,
			&vs.FirstSeen, &vs.LastSeen); err != nil {
			return nil, fmt.Errorf("scanning view stats row: %w", err)
		}
		stats = append(stats, vs)
	}
	return stats, rows.Err()
}

// PruneFailures removes failures older than before.
func (s *DBService) PruneFailures(before int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM render_failures WHERE occurred_at < ?`, before)
	if err != nil {
		return 0, fmt.Errorf("pruning failures: %w", err)
	}
	return res.RowsAffected()
}

// Close closes prepared statements and the underlying connection pool.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stmtInsertFailure != nil {
		s.stmtInsertFailure.Close()
	}
	return s.db.Close()
}

func failureArgs(f *Failure) []any {
	return []any{
		f.FailureID, f.SessionID, f.View, f.Message,
		f.Panicked, f.Stack, f.OccurredAt,
	}
}
