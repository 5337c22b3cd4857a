package eventlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mavwarf/chaticon/internal/paths"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path, creates
// tables, and performs one-time migration from history.log if it exists in
// the same directory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp  TEXT    NOT NULL,
    engine     TEXT    NOT NULL DEFAULT '',
    vector     TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS targets (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    size    INTEGER NOT NULL,
    path    TEXT    NOT NULL,
    error   TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_targets_run ON targets(run_id);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}

	logPath := filepath.Join(filepath.Dir(path), paths.HistoryFileName)
	if _, err := os.Stat(logPath); err == nil {
		if err := s.migrateFromFile(logPath); err != nil {
			fmt.Fprintf(os.Stderr, "eventlog: migration: %v\n", err)
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LogRun(r Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRun(tx, r); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRun(tx *sql.Tx, r Run) error {
	res, err := tx.Exec(
		`INSERT INTO runs (timestamp, engine, vector) VALUES (?, ?, ?)`,
		r.Time.Format(time.RFC3339), r.Engine, r.Vector,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, t := range r.Targets {
		if _, err := tx.Exec(
			`INSERT INTO targets (run_id, size, path, error) VALUES (?, ?, ?, ?)`,
			runID, t.Size, t.Path, t.Error,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Runs(limit int) ([]Run, error) {
	query := `SELECT id, timestamp, engine, vector FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	var ids []int64
	var runs []Run
	for rows.Next() {
		var id int64
		var tsStr, engine, vector string
		if err := rows.Scan(&id, &tsStr, &engine, &vector); err != nil {
			rows.Close()
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		runs = append(runs, Run{Time: ts, Engine: engine, Vector: vector})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i, id := range ids {
		targets, err := s.targets(id)
		if err != nil {
			return nil, err
		}
		runs[i].Targets = targets
	}
	return runs, nil
}

func (s *SQLiteStore) targets(runID int64) ([]Target, error) {
	rows, err := s.db.Query(
		`SELECT size, path, error FROM targets WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.Size, &t.Path, &t.Error); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM runs`)
	return err
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// migrateFromFile imports runs from an existing history.log. On success,
// renames the log to history.log.migrated.
func (s *SQLiteStore) migrateFromFile(logPath string) error {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range ParseRuns(string(data)) {
		if err := insertRun(tx, r); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return os.Rename(logPath, logPath+".migrated")
}
