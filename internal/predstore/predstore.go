// Package predstore keeps prediction runs in a SQLite database.
package predstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"timelapse-frames/internal/features"
)

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// Run describes one invocation of the classifier over a directory.
type Run struct {
	ID        string
	ModelID   string
	SourceDir string
	CreatedAt time.Time
}

// Prediction is a stored row of a prediction table.
type Prediction struct {
	File       string
	Features   map[string]*float64
	Prediction *int
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model_id TEXT NOT NULL,
		source_dir TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		file TEXT NOT NULL,
		features TEXT NOT NULL,
		prediction INTEGER,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_run_id ON predictions(run_id);
	CREATE INDEX IF NOT EXISTS idx_predictions_file ON predictions(file);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveRun stores t under a new run in a single transaction and returns the run.
func (s *Store) SaveRun(modelID, sourceDir string, t *features.Table) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		ModelID:   modelID,
		SourceDir: sourceDir,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs (id, model_id, source_dir, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.ModelID, run.SourceDir, run.CreatedAt); err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO predictions (run_id, file, features, prediction) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		values := make(map[string]*float64, len(t.Columns))
		for i, c := range t.Columns {
			values[c] = row.Values[i]
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return Run{}, fmt.Errorf("failed to encode features: %w", err)
		}

		var prediction sql.NullInt64
		if row.Target != nil {
			prediction = sql.NullInt64{Int64: int64(*row.Target), Valid: true}
		}

		if _, err := stmt.Exec(run.ID, row.File, string(encoded), prediction); err != nil {
			return Run{}, fmt.Errorf("failed to insert prediction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}
	return run, nil
}

// Runs returns all runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.conn.Query(`SELECT id, model_id, source_dir, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ModelID, &r.SourceDir, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Predictions returns the rows of a run in insertion order.
func (s *Store) Predictions(runID string) ([]Prediction, error) {
	rows, err := s.conn.Query(`SELECT file, features, prediction FROM predictions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var preds []Prediction
	for rows.Next() {
		var (
			p          Prediction
			encoded    string
			prediction sql.NullInt64
		)
		if err := rows.Scan(&p.File, &encoded, &prediction); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &p.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features: %w", err)
		}
		if prediction.Valid {
			v := int(prediction.Int64)
			p.Prediction = &v
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}
