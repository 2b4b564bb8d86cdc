// Package history persists breakpoint changes to SQLite so a session's layout
// transitions can be listed after the fact.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

// Session is one run of a sampler against a size source.
type Session struct {
	ID          int64
	Source      string
	StartedAt   time.Time
	CompletedAt *time.Time
	Resizes     int64
	Batches     int64
	Changes     int64
}

// Change is one recorded breakpoint transition.
type Change struct {
	ID         int64
	SessionID  int64
	At         time.Time
	Descriptor model.Descriptor
	Sample     model.SizeSample
}

// DB handles history persistence.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the history database at dbPath.
func OpenDB(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	hdb := &DB{db: db}
	if err := hdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return hdb, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		started_ms INTEGER NOT NULL,
		completed_ms INTEGER,
		resizes INTEGER DEFAULT 0,
		batches INTEGER DEFAULT 0,
		changes INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES sessions(id),
		at_ms INTEGER NOT NULL,
		level INTEGER NOT NULL,
		size_class TEXT NOT NULL,
		grid_columns INTEGER NOT NULL,
		gutter INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_changes_session ON changes(session_id);
	`
	_, err := d.db.Exec(schema)
	return err
}

// StartSession creates a new session for source.
func (d *DB) StartSession(source string) (*Session, error) {
	now := time.Now()
	result, err := d.db.Exec(`
		INSERT INTO sessions (source, started_ms) VALUES (?, ?)
	`, source, now.UnixMilli())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, Source: source, StartedAt: time.UnixMilli(now.UnixMilli())}, nil
}

// RecordChange appends a transition to session.
func (d *DB) RecordChange(sessionID int64, at time.Time, desc model.Descriptor, s model.SizeSample) error {
	_, err := d.db.Exec(`
		INSERT INTO changes (session_id, at_ms, level, size_class, grid_columns, gutter, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, at.UnixMilli(), desc.Level, desc.SizeClass.String(), desc.GridColumns, desc.Gutter, s.Width, s.Height)
	return err
}

// CompleteSession stamps the session's end time and final counters.
func (d *DB) CompleteSession(session *Session) error {
	now := time.UnixMilli(time.Now().UnixMilli())
	session.CompletedAt = &now
	_, err := d.db.Exec(`
		UPDATE sessions
		SET completed_ms = ?, resizes = ?, batches = ?, changes = ?
		WHERE id = ?
	`, now.UnixMilli(), session.Resizes, session.Batches, session.Changes, session.ID)
	return err
}

// Sessions returns up to limit sessions, newest first. limit <= 0 returns all.
func (d *DB) Sessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.db.Query(`
		SELECT id, source, started_ms, completed_ms, resizes, batches, changes
		FROM sessions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s           Session
			startedMS   int64
			completedMS sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Source, &startedMS, &completedMS, &s.Resizes, &s.Batches, &s.Changes); err != nil {
			return nil, err
		}
		s.StartedAt = time.UnixMilli(startedMS)
		if completedMS.Valid {
			t := time.UnixMilli(completedMS.Int64)
			s.CompletedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Changes returns a session's transitions in the order they happened.
func (d *DB) Changes(sessionID int64) ([]Change, error) {
	rows, err := d.db.Query(`
		SELECT id, session_id, at_ms, level, size_class, grid_columns, gutter, width, height
		FROM changes
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []Change
	for rows.Next() {
		var (
			c     Change
			atMS  int64
			class string
		)
		if err := rows.Scan(&c.ID, &c.SessionID, &atMS, &c.Descriptor.Level, &class,
			&c.Descriptor.GridColumns, &c.Descriptor.Gutter, &c.Sample.Width, &c.Sample.Height); err != nil {
			return nil, err
		}
		sc, err := model.ParseSizeClass(class)
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", c.ID, err)
		}
		c.Descriptor.SizeClass = sc
		c.At = time.UnixMilli(atMS)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
