// Package journal persists an append-only audit log of emitted alerts in a
// local SQLite database. It is observability only: the detection pipeline
// never reads it.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ransomguard/internal/alert"
	"ransomguard/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp_ns INTEGER NOT NULL,
    path         TEXT NOT NULL,
    reasons      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp_ns);
CREATE INDEX IF NOT EXISTS idx_alerts_path ON alerts(path, timestamp_ns);
`

// Journal is the SQLite alert audit log.
type Journal struct {
	db  *sql.DB
	log *logging.Logger
}

// Entry is one journalled alert.
type Entry struct {
	ID      int64
	Time    time.Time
	Path    string
	Reasons string
}

// Open opens or creates the journal database at path.
func Open(path string, log *logging.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Journal{db: db, log: log}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record appends one alert row.
func (j *Journal) Record(a alert.Alert) error {
	_, err := j.db.Exec(
		`INSERT INTO alerts (timestamp_ns, path, reasons) VALUES (?, ?, ?)`,
		a.Time.UnixNano(), a.Path, a.Reason(),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// Emit implements alert.Sink. A journal write failure must never stall the
// pipeline, so it is logged and dropped.
func (j *Journal) Emit(a alert.Alert) {
	if err := j.Record(a); err != nil && j.log != nil {
		j.log.Error("journal write failed", "path", a.Path, "error", err)
	}
}

// Recent returns up to limit alerts, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, timestamp_ns, path, reasons FROM alerts ORDER BY timestamp_ns DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ns int64
		if err := rows.Scan(&e.ID, &ns, &e.Path, &e.Reasons); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		e.Time = time.Unix(0, ns)
		out = append(out, e)
	}
	return out, rows.Err()
}
