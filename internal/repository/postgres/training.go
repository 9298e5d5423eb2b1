package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

type trainingRepo struct{ *PostgresStorage }

var _ repository.TrainingRepository = (*trainingRepo)(nil)

const trainingColumns = `id, user_id, to_char(training_date, 'YYYY-MM-DD'), session_type, duration_minutes,
	heart_rate, effort_color, complexity, details, created_at, updated_at`

func scanTraining(row pgx.Row) (domain.TrainingEntry, error) {
	var e domain.TrainingEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Category, &e.DurationMinutes,
		&e.HeartRate, &e.Effort, &e.Complexity, &e.Details, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *trainingRepo) Create(ctx context.Context, e *domain.TrainingEntry) (string, error) {
	if e.UserID == "" || e.Date == "" {
		return "", errors.New("training entry requires userId and date")
	}
	e.ID = newID()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now

	_, err := r.pool.Exec(ctx, `INSERT INTO training_log (id, user_id, training_date, session_type, duration_minutes,
		heart_rate, effort_color, complexity, details, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.UserID, e.Date, e.Category, e.DurationMinutes, e.HeartRate, e.Effort, e.Complexity, e.Details, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		r.logger.Errorf("failed to insert training entry: %v", err)
		return "", err
	}
	return e.ID, nil
}

func (r *trainingRepo) GetByID(ctx context.Context, id string) (*domain.TrainingEntry, error) {
	e, err := scanTraining(r.pool.QueryRow(ctx, `SELECT `+trainingColumns+` FROM training_log WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *trainingRepo) Update(ctx context.Context, e *domain.TrainingEntry) error {
	e.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `UPDATE training_log SET training_date = $2::date, session_type = $3, duration_minutes = $4,
		heart_rate = $5, effort_color = $6, complexity = $7, details = $8, updated_at = $9 WHERE id = $1`,
		e.ID, e.Date, e.Category, e.DurationMinutes, e.HeartRate, e.Effort, e.Complexity, e.Details, e.UpdatedAt)
	if err != nil {
		r.logger.Errorf("failed to update training entry: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *trainingRepo) ListByUser(ctx context.Context, userID string, dr repository.DateRange) ([]domain.TrainingEntry, error) {
	where, args := dateRange([]string{"user_id = $1"}, []any{userID}, "training_date", dr)
	return r.list(ctx, `SELECT `+trainingColumns+` FROM training_log WHERE `+and(where)+
		` ORDER BY training_date, created_at`, args...)
}

func (r *trainingRepo) ListRecent(ctx context.Context, userID string, limit int) ([]domain.TrainingEntry, error) {
	return r.list(ctx, `SELECT `+trainingColumns+` FROM training_log WHERE user_id = $1
		ORDER BY training_date DESC, created_at DESC LIMIT $2`, userID, limit)
}

func (r *trainingRepo) list(ctx context.Context, sql string, args ...any) ([]domain.TrainingEntry, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Errorf("failed to query training log: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []domain.TrainingEntry{}
	for rows.Next() {
		e, err := scanTraining(rows)
		if err != nil {
			return nil, fmt.Errorf("scan training entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
