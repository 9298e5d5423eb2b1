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

type rhrRepo struct{ *PostgresStorage }

var _ repository.RestingHeartRateRepository = (*rhrRepo)(nil)

const rhrColumns = `id, user_id, to_char(entry_date, 'YYYY-MM-DD'), resting_heart_rate, created_at, updated_at`

func scanRHR(row pgx.Row) (domain.RestingHeartRateEntry, error) {
	var e domain.RestingHeartRateEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.BPM, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *rhrRepo) Upsert(ctx context.Context, e *domain.RestingHeartRateEntry) error {
	if e.UserID == "" || e.Date == "" {
		return errors.New("resting heart rate requires userId and date")
	}
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `INSERT INTO resting_hr_log (id, user_id, entry_date, resting_heart_rate, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $5)
		ON CONFLICT (user_id, entry_date) DO UPDATE
		SET resting_heart_rate = EXCLUDED.resting_heart_rate, updated_at = EXCLUDED.updated_at
		RETURNING `+rhrColumns, newID(), e.UserID, e.Date, e.BPM, now)
	stored, err := scanRHR(row)
	if err != nil {
		r.logger.Errorf("failed to upsert resting heart rate: %v", err)
		return err
	}
	*e = stored
	return nil
}

func (r *rhrRepo) GetByID(ctx context.Context, id string) (*domain.RestingHeartRateEntry, error) {
	e, err := scanRHR(r.pool.QueryRow(ctx, `SELECT `+rhrColumns+` FROM resting_hr_log WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *rhrRepo) Update(ctx context.Context, e *domain.RestingHeartRateEntry) error {
	e.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `UPDATE resting_hr_log SET entry_date = $2::date, resting_heart_rate = $3, updated_at = $4 WHERE id = $1`,
		e.ID, e.Date, e.BPM, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *rhrRepo) ListByUser(ctx context.Context, userID string, dr repository.DateRange) ([]domain.RestingHeartRateEntry, error) {
	where, args := dateRange([]string{"user_id = $1"}, []any{userID}, "entry_date", dr)
	rows, err := r.pool.Query(ctx, `SELECT `+rhrColumns+` FROM resting_hr_log WHERE `+and(where)+` ORDER BY entry_date`, args...)
	if err != nil {
		r.logger.Errorf("failed to query resting heart rate: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []domain.RestingHeartRateEntry{}
	for rows.Next() {
		e, err := scanRHR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resting heart rate: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type bodyRepo struct{ *PostgresStorage }

var _ repository.BodyMetricRepository = (*bodyRepo)(nil)

const bodyColumns = `id, user_id, to_char(entry_date, 'YYYY-MM-DD'), height_cm, weight_kg, created_at, updated_at`

func scanBody(row pgx.Row) (domain.BodyMetricEntry, error) {
	var e domain.BodyMetricEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.HeightCm, &e.WeightKg, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *bodyRepo) Create(ctx context.Context, e *domain.BodyMetricEntry) (string, error) {
	if e.UserID == "" || e.Date == "" {
		return "", errors.New("body metric requires userId and date")
	}
	e.ID = newID()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now

	_, err := r.pool.Exec(ctx, `INSERT INTO body_metrics_log (id, user_id, entry_date, height_cm, weight_kg, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Date, e.HeightCm, e.WeightKg, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		r.logger.Errorf("failed to insert body metric: %v", err)
		return "", err
	}
	return e.ID, nil
}

func (r *bodyRepo) GetByID(ctx context.Context, id string) (*domain.BodyMetricEntry, error) {
	e, err := scanBody(r.pool.QueryRow(ctx, `SELECT `+bodyColumns+` FROM body_metrics_log WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *bodyRepo) Update(ctx context.Context, e *domain.BodyMetricEntry) error {
	e.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `UPDATE body_metrics_log SET entry_date = $2::date, height_cm = $3, weight_kg = $4, updated_at = $5 WHERE id = $1`,
		e.ID, e.Date, e.HeightCm, e.WeightKg, e.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bodyRepo) ListByUser(ctx context.Context, userID string, dr repository.DateRange) ([]domain.BodyMetricEntry, error) {
	where, args := dateRange([]string{"user_id = $1"}, []any{userID}, "entry_date", dr)
	rows, err := r.pool.Query(ctx, `SELECT `+bodyColumns+` FROM body_metrics_log WHERE `+and(where)+` ORDER BY entry_date, created_at`, args...)
	if err != nil {
		r.logger.Errorf("failed to query body metrics: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []domain.BodyMetricEntry{}
	for rows.Next() {
		e, err := scanBody(rows)
		if err != nil {
			return nil, fmt.Errorf("scan body metric: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
