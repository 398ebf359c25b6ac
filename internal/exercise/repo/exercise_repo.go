package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/entity"
)

const dayFormat = "2006-01-02"

// IDSource hands out store-assigned ids.
type IDSource interface {
	NewID() string
}

// ExerciseRepo provides data access for the exercises table using sqlx.
type ExerciseRepo struct {
	db  *sqlx.DB
	ids IDSource
}

func NewExerciseRepo(db *sqlx.DB, ids IDSource) *ExerciseRepo {
	return &ExerciseRepo{db: db, ids: ids}
}

// EnsureTable creates the exercises table if not exists (idempotent).
// user_id is a plain lookup key with no foreign key.
func (r *ExerciseRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS exercises (
  id VARCHAR(32) PRIMARY KEY,
  user_id VARCHAR(32) NOT NULL,
  description TEXT NOT NULL,
  duration INTEGER NOT NULL CHECK (duration > 0),
  date DATE NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_exercises_user_date ON exercises(user_id, date);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts e, filling in its ID and CreatedAt.
func (r *ExerciseRepo) Create(ctx context.Context, e *entity.Exercise) error {
	const q = `INSERT INTO exercises (id, user_id, description, duration, date)
		  VALUES (:id, :user_id, :description, :duration, CAST(:date AS DATE)) RETURNING id, created_at`
	params := map[string]any{
		"id":          r.ids.NewID(),
		"user_id":     e.UserID,
		"description": e.Description,
		"duration":    e.Duration,
		// the day is sent as text so the session time zone cannot shift it
		"date": e.Date.UTC().Format(dayFormat),
	}
	rows, err := r.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("insert exercise: no row returned")
	}
	return rows.Scan(&e.ID, &e.CreatedAt)
}

// ListByUser returns a user's entries ordered by day, then insertion.
func (r *ExerciseRepo) ListByUser(ctx context.Context, userID string, f entity.LogFilter) ([]entity.Exercise, error) {
	q, args := buildListQuery(userID, f)
	out := []entity.Exercise{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func buildListQuery(userID string, f entity.LogFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT id, user_id, description, duration, date, created_at FROM exercises WHERE user_id=$1`)
	args := []any{userID}
	if f.From != nil {
		args = append(args, f.From.UTC().Format(dayFormat))
		fmt.Fprintf(&b, ` AND date >= CAST($%d AS DATE)`, len(args))
	}
	if f.To != nil {
		args = append(args, f.To.UTC().Format(dayFormat))
		fmt.Fprintf(&b, ` AND date <= CAST($%d AS DATE)`, len(args))
	}
	b.WriteString(` ORDER BY date, created_at, id`)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, ` LIMIT $%d`, len(args))
	}
	return b.String(), args
}
