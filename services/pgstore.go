package services

import (
	"context"
	"errors"
	"fmt"

	"tasklist/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, description, task, priority, labels, created_at, updated_at`

// PgStore is a PostgreSQL-backed TaskStore. The seq column records
// insertion order; an upsert keeps the row's original seq.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	return ensureTable(ctx, s.pool)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func ensureTable(ctx context.Context, db execer) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			seq         BIGSERIAL,
			id          TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			task        TEXT NOT NULL,
			priority    DOUBLE PRECISION NOT NULL,
			labels      TEXT[] NOT NULL DEFAULT '{}',
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("ensure tasks table: %w", err)
	}
	_, err = db.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_seq ON tasks(seq)`)
	if err != nil {
		return fmt.Errorf("ensure tasks seq index: %w", err)
	}
	return nil
}

func (s *PgStore) Insert(ctx context.Context, id string, t model.Task) error {
	if err := upsertTask(ctx, s.pool, id, t); err != nil {
		return fmt.Errorf("insert task %s: %w", id, err)
	}
	return nil
}

func (s *PgStore) Get(ctx context.Context, id string) (model.Task, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, true, nil
}

func (s *PgStore) Remove(ctx context.Context, id string) (model.Task, bool, error) {
	row := s.pool.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, fmt.Errorf("remove task %s: %w", id, err)
	}
	return t, true, nil
}

func (s *PgStore) Values(ctx context.Context) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

func (s *PgStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}

func (s *PgStore) Update(ctx context.Context, id string, fn func(model.Task) (model.Task, error)) (model.Task, bool, error) {
	var updated model.Task
	found := false

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id)
		cur, err := scanTask(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		updated, err = fn(cur)
		if err != nil {
			return err
		}
		return upsertTask(ctx, tx, id, updated)
	})
	if err != nil {
		return model.Task{}, found, fmt.Errorf("update task %s: %w", id, err)
	}
	return updated, found, nil
}

func (s *PgStore) Replace(ctx context.Context, fn func([]model.Task) ([]model.Task, error)) ([]model.Task, error) {
	var result []model.Task

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE tasks IN EXCLUSIVE MODE`); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq`)
		if err != nil {
			return err
		}
		current, err := scanTaskRows(rows)
		rows.Close()
		if err != nil {
			return err
		}

		keep, err := fn(current)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM tasks`); err != nil {
			return err
		}
		for _, t := range keep {
			if err := upsertTask(ctx, tx, t.ID, t); err != nil {
				return err
			}
		}
		result = append([]model.Task{}, keep...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func upsertTask(ctx context.Context, db rowQuerier, id string, t model.Task) error {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	var got string
	return db.QueryRow(ctx, `
		INSERT INTO tasks (id, description, task, priority, labels, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			description = EXCLUDED.description,
			task        = EXCLUDED.task,
			priority    = EXCLUDED.priority,
			labels      = EXCLUDED.labels,
			created_at  = EXCLUDED.created_at,
			updated_at  = EXCLUDED.updated_at
		RETURNING id`,
		id, t.Description, t.Task, t.Priority, labels, t.CreatedAt, t.UpdatedAt).Scan(&got)
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Description, &t.Task, &t.Priority, &t.Labels, &t.CreatedAt, &t.UpdatedAt)
	if t.Labels == nil {
		t.Labels = []string{}
	}
	return t, err
}

func scanTaskRows(rows pgx.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}

var _ TaskStore = (*PgStore)(nil)
