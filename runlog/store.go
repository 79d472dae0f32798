// Package runlog records lesson results in a SQLite database. It replaces an
// append-only analysis CSV: every training run appends a row, and prediction
// loads weights via the highest-accuracy run for a name.
package runlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded training result. Params carries the model-specific
// hyperparameters needed to rebuild the model for prediction.
type Run struct {
	ID       int64
	Name     string
	Model    string // "nn", "svm" or "kmeans"
	Params   map[string]string
	Accuracy float64
	Seconds  float64
	Stamp    int64 // unix time, ties the run to saved weight files
	Created  time.Time
}

// Store is a SQLite-backed run registry.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the registry at path. Use ":memory:" for an
// in-memory registry.
func Open(path string) (*Store, error) {
	connStr := path + "?cache=shared"
	if path == ":memory:" {
		connStr = path + "?cache=shared&mode=memory"
	}
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening run registry %s: %w", path, err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		model TEXT NOT NULL,
		params TEXT NOT NULL,
		accuracy REAL NOT NULL,
		seconds REAL NOT NULL,
		stamp INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing run registry: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Record appends one run.
func (s *Store) Record(run Run) error {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("marshalling run params: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO runs (name, model, params, accuracy, seconds, stamp) VALUES (?, ?, ?, ?, ?, ?)`,
		run.Name, run.Model, string(params), run.Accuracy, run.Seconds, run.Stamp,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.Name, err)
	}
	return nil
}

// BestRun returns the highest-accuracy run recorded under a name.
func (s *Store) BestRun(name string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT id, name, model, params, accuracy, seconds, stamp, created_at
		 FROM runs WHERE name = ? ORDER BY accuracy DESC, id DESC LIMIT 1`, name)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("no runs recorded for %s", name)
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying best run for %s: %w", name, err)
	}
	return run, nil
}

// History returns all runs recorded under a name, oldest first.
func (s *Store) History(name string) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, name, model, params, accuracy, seconds, stamp, created_at
		 FROM runs WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", name, err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run    Run
		params string
	)
	if err := row.Scan(&run.ID, &run.Name, &run.Model, &params, &run.Accuracy, &run.Seconds, &run.Stamp, &run.Created); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return Run{}, fmt.Errorf("unmarshalling run params: %w", err)
	}
	return run, nil
}
