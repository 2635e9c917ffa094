package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rhyrak/smart-timetable/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS schedule_runs (
	id             UUID PRIMARY KEY,
	status         TEXT NOT NULL,
	report         TEXT NOT NULL,
	data           TEXT NOT NULL,
	lecture_count  INTEGER NOT NULL,
	unplaced_count INTEGER NOT NULL,
	seed           TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
)`

// RunRepository persists generated timetables.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the schedule_runs table when missing.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schedule_runs table: %w", err)
	}
	return nil
}

// Create inserts run, assigning an ID and creation time when unset.
func (r *RunRepository) Create(ctx context.Context, run *model.ScheduleRun) error {
	if run == nil {
		return fmt.Errorf("schedule run payload is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO schedule_runs (id, status, report, data, lecture_count, unplaced_count, seed, created_at)
VALUES (:id, :status, :report, :data, :lecture_count, :unplaced_count, :seed, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert schedule run: %w", err)
	}
	return nil
}

// List returns the newest runs first, without their CSV data.
func (r *RunRepository) List(ctx context.Context, limit int) ([]model.ScheduleRun, error) {
	const query = `SELECT id, status, report, lecture_count, unplaced_count, seed, created_at FROM schedule_runs ORDER BY created_at DESC LIMIT $1`
	runs := []model.ScheduleRun{}
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	return runs, nil
}

// FindByID loads a run including its CSV data. Missing runs return sql.ErrNoRows.
func (r *RunRepository) FindByID(ctx context.Context, id string) (*model.ScheduleRun, error) {
	const query = `SELECT id, status, report, data, lecture_count, unplaced_count, seed, created_at FROM schedule_runs WHERE id = $1`
	var run model.ScheduleRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_runs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
