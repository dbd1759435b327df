package history

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

// SQLiteStore persists reports to SQLite.
// It is suitable for single-process use such as the CLI.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite history store.
// The path should be a file path (e.g., "./history.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every pooled connection to ":memory:" would be its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS executions (
			execution_id TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			status TEXT NOT NULL,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			node_count INTEGER NOT NULL,
			skipped_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			report BLOB NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_executions_workflow_start
		ON executions(workflow_id, start_time)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(report *circuitcraft.ExecutionResult) error {
	sum, data, err := encode(report)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err = s.db.Exec(`
		INSERT INTO executions (
			execution_id, workflow_id, status, start_time, end_time,
			duration_ms, node_count, skipped_count, error_count, report
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(execution_id) DO UPDATE SET
			workflow_id = excluded.workflow_id,
			status = excluded.status,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_ms = excluded.duration_ms,
			node_count = excluded.node_count,
			skipped_count = excluded.skipped_count,
			error_count = excluded.error_count,
			report = excluded.report
	`, sum.ExecutionID, sum.WorkflowID, string(sum.Status),
		sum.StartTime.UnixNano(), sum.EndTime.UnixNano(),
		sum.DurationMs, sum.NodeCount, sum.SkippedCount, sum.ErrorCount, data)
	if err != nil {
		return fmt.Errorf("save execution: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(executionID string) (*circuitcraft.ExecutionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`
		SELECT report FROM executions WHERE execution_id = ?
	`, executionID).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load execution: %w", err)
	}
	return decode(data)
}

// List implements Store.
func (s *SQLiteStore) List(workflowID string, limit int) ([]circuitcraft.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT execution_id, workflow_id, status, start_time, end_time,
			duration_ms, node_count, skipped_count, error_count
		FROM executions
		WHERE ? = '' OR workflow_id = ?
		ORDER BY start_time DESC, rowid DESC
		LIMIT ?
	`, workflowID, workflowID, limit)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []circuitcraft.Summary
	for rows.Next() {
		var (
			sum        circuitcraft.Summary
			status     string
			start, end int64
		)
		if err := rows.Scan(&sum.ExecutionID, &sum.WorkflowID, &status, &start, &end,
			&sum.DurationMs, &sum.NodeCount, &sum.SkippedCount, &sum.ErrorCount); err != nil {
			return nil, fmt.Errorf("scan execution summary: %w", err)
		}
		sum.Status = circuitcraft.Status(status)
		sum.StartTime = time.Unix(0, start).UTC()
		sum.EndTime = time.Unix(0, end).UTC()
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}

	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(executionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM executions WHERE execution_id = ?`, executionID); err != nil {
		return fmt.Errorf("delete execution: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
