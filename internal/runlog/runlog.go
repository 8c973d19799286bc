// Package runlog keeps phase results of runs in SQLite, so learning curves can be compared later.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS phase_results (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	phase      TEXT NOT NULL,
	row_cap    INTEGER NOT NULL,
	rows       INTEGER NOT NULL,
	accuracy   REAL,
	elapsed_ms INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_phase_results_run ON phase_results(run_id);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db %v: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init results db %v: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, r domain.PhaseResult) error {
	var accuracy sql.NullFloat64
	if r.HasAccuracy {
		accuracy = sql.NullFloat64{Float64: r.Accuracy, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO phase_results (run_id, phase, row_cap, rows, accuracy, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Phase.String(), r.RowCap, r.Rows, accuracy, r.Elapsed.Milliseconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record %v %v: %w", r.RunID, r.Phase, err)
	}
	return nil
}

// Results returns the recorded phases of runID in insertion order.
func (s *Store) Results(ctx context.Context, runID string) ([]domain.PhaseResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT phase, row_cap, rows, accuracy, elapsed_ms FROM phase_results WHERE run_id = ? ORDER BY id`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PhaseResult
	for rows.Next() {
		var (
			phase     string
			accuracy  sql.NullFloat64
			elapsedMs int64
			r         = domain.PhaseResult{RunID: runID}
		)
		if err := rows.Scan(&phase, &r.RowCap, &r.Rows, &accuracy, &elapsedMs); err != nil {
			return nil, err
		}
		r.Phase = parsePhase(phase)
		r.Accuracy = accuracy.Float64
		r.HasAccuracy = accuracy.Valid
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		result = append(result, r)
	}
	return result, rows.Err()
}

func parsePhase(s string) domain.Phase {
	for _, p := range []domain.Phase{domain.PhaseTrain, domain.PhaseCrossValidate, domain.PhaseTest} {
		if p.String() == s {
			return p
		}
	}
	return domain.PhaseNone
}
