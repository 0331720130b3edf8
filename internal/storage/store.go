// Package storage keeps simulated runs in a SQLite database: one row of
// metadata per run plus every point of its trajectory.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/sirsim/internal/sir"
)

//go:embed schema.sql
var schemaSQL string

var ErrNotFound = errors.New("storage: run not found")

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db *sql.DB
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Initial   sir.State          `json:"initial"`
	Params    sir.Params         `json:"params"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Open creates or opens the database at path. It is safe to call on an
// existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect %s: %w", path, err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("storage: %q: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes meta and series in one transaction and returns the run ID.
// A new time-ordered ID is generated when meta.ID is empty, and the current
// time is used when meta.Timestamp is zero. Non-finite metric values are not
// stored.
func (s *Store) Save(ctx context.Context, meta RunMetadata, series *sir.Series) (string, error) {
	if meta.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("storage: new run id: %w", err)
		}
		meta.ID = id.String()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metrics, err := json.Marshal(finiteMetrics(meta.Metrics))
	if err != nil {
		return "", fmt.Errorf("storage: encode metrics: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, preset, created_at, susceptible, infected, recovered, beta, gamma, dt, steps, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Preset, meta.Timestamp.UTC().Format(timeLayout),
		meta.Initial.S, meta.Initial.I, meta.Initial.R,
		meta.Params.Beta, meta.Params.Gamma, meta.Dt, meta.Steps, string(metrics),
	)
	if err != nil {
		return "", fmt.Errorf("storage: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points (run_id, idx, t, s, i, r) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("storage: prepare points: %w", err)
	}
	defer stmt.Close()

	for k := 0; k < series.Len(); k++ {
		if _, err := stmt.ExecContext(ctx, meta.ID, k,
			nullable(series.T[k]), nullable(series.S[k]), nullable(series.I[k]), nullable(series.R[k])); err != nil {
			return "", fmt.Errorf("storage: insert point %d: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: commit: %w", err)
	}
	return meta.ID, nil
}

// List returns all runs, newest first.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *meta)
	}
	return runs, rows.Err()
}

func (s *Store) Load(ctx context.Context, id string) (*RunMetadata, error) {
	meta, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return meta, err
}

// LoadSeries reads the trajectory of a run. Values that were not finite
// when saved come back as NaN.
func (s *Store) LoadSeries(ctx context.Context, id string) (*sir.Series, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("storage: load series: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT t, s, i, r FROM points WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("storage: load series: %w", err)
	}
	defer rows.Close()

	series := &sir.Series{}
	for rows.Next() {
		var t, sv, iv, rv sql.NullFloat64
		if err := rows.Scan(&t, &sv, &iv, &rv); err != nil {
			return nil, fmt.Errorf("storage: scan point: %w", err)
		}
		series.T = append(series.T, orNaN(t))
		series.S = append(series.S, orNaN(sv))
		series.I = append(series.I, orNaN(iv))
		series.R = append(series.R, orNaN(rv))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load series: %w", err)
	}
	return series, nil
}

// Delete removes a run and its points.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

const selectRuns = `SELECT id, preset, created_at, susceptible, infected, recovered, beta, gamma, dt, steps, metrics FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunMetadata, error) {
	var (
		meta    RunMetadata
		created string
		metrics string
	)
	err := row.Scan(&meta.ID, &meta.Preset, &created,
		&meta.Initial.S, &meta.Initial.I, &meta.Initial.R,
		&meta.Params.Beta, &meta.Params.Gamma, &meta.Dt, &meta.Steps, &metrics)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("storage: scan run: %w", err)
	}

	meta.Timestamp, err = time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: bad timestamp %q: %w", meta.ID, created, err)
	}
	if err := json.Unmarshal([]byte(metrics), &meta.Metrics); err != nil {
		return nil, fmt.Errorf("storage: run %s: decode metrics: %w", meta.ID, err)
	}
	return &meta, nil
}

func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[name] = v
	}
	return out
}

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
