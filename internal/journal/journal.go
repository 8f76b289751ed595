// Package journal is the device event journal (§1's "out of scope,
// contract-only" profile layer has a sibling concern that isn't out of
// scope: a durable record of attach/remove/error/command events, useful
// for diagnosing a GoXLR that misbehaves between runs). It follows the
// teacher's embedded-migration SQLite setup (internal/database) adapted
// from a call-detail-record store to a device-event store.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sql.DB connection opened with the journal's WAL pragmas and
// migrations applied.
type DB struct {
	*sql.DB
}

// Open creates or opens the device event journal at <dataDir>/journal.db.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", dbPath)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging journal database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running journal migrations: %w", err)
	}

	slog.Info("journal opened", "path", dbPath)
	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version := strings.TrimSuffix(entry.Name(), ".sql")

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %s: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", version, err)
		}
		slog.Info("applied journal migration", "version", version)
	}
	return nil
}

// EventType names the kind of device event recorded.
type EventType string

const (
	EventAttached EventType = "attached"
	EventRemoved  EventType = "removed"
	EventErrored  EventType = "errored"
	EventCommand  EventType = "command"
)

// Event is one row of the device event journal.
type Event struct {
	ID         int64
	Serial     string
	Type       EventType
	Detail     string
	OccurredAt time.Time
}

// Journal records and queries device events.
type Journal struct {
	db *DB
}

// New wraps an open journal database.
func New(db *DB) *Journal {
	return &Journal{db: db}
}

// Record appends one event for serial. detail is a short free-text note
// (e.g. a xerrors message, or the command's GoXLRCommand.Kind).
func (j *Journal) Record(ctx context.Context, serial string, eventType EventType, detail string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO device_events (serial, event_type, detail) VALUES (?, ?, ?)`,
		serial, string(eventType), detail,
	)
	if err != nil {
		return fmt.Errorf("journal: recording event: %w", err)
	}
	return nil
}

// Recent returns the most recent limit events for serial, newest first.
func (j *Journal) Recent(ctx context.Context, serial string, limit int) ([]Event, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, serial, event_type, detail, occurred_at FROM device_events
		 WHERE serial = ? ORDER BY id DESC LIMIT ?`,
		serial, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: querying events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var occurredAt string
		if err := rows.Scan(&e.ID, &e.Serial, &e.Type, &e.Detail, &occurredAt); err != nil {
			return nil, fmt.Errorf("journal: scanning event: %w", err)
		}
		e.OccurredAt, err = time.Parse("2006-01-02 15:04:05", occurredAt)
		if err != nil {
			e.OccurredAt, err = time.Parse(time.RFC3339, occurredAt)
			if err != nil {
				return nil, fmt.Errorf("journal: parsing occurred_at: %w", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterating events: %w", err)
	}
	return events, nil
}
