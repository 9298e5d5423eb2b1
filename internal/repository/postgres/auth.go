package postgres

import (
	"context"
	"time"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

type magicLinkRepo struct{ *PostgresStorage }

var _ repository.MagicLinkRepository = (*magicLinkRepo)(nil)

func (r *magicLinkRepo) Create(ctx context.Context, l *domain.MagicLink) error {
	if l.ID == "" {
		l.ID = newID()
	}
	l.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO magic_links (id, profile_id, email, secret_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.ProfileID, l.Email, l.SecretHash, l.ExpiresAt, l.CreatedAt)
	if err != nil {
		r.logger.Errorf("failed to insert magic link: %v", err)
	}
	return err
}

func (r *magicLinkRepo) GetByID(ctx context.Context, id string) (*domain.MagicLink, error) {
	var l domain.MagicLink
	row := r.pool.QueryRow(ctx, `SELECT id, profile_id, email, secret_hash, expires_at, used_at, created_at
		FROM magic_links WHERE id = $1`, id)
	if err := row.Scan(&l.ID, &l.ProfileID, &l.Email, &l.SecretHash, &l.ExpiresAt, &l.UsedAt, &l.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// MarkUsed only touches unused links, so a link is redeemed at most once.
func (r *magicLinkRepo) MarkUsed(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE magic_links SET used_at = $2 WHERE id = $1 AND used_at IS NULL`, id, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *magicLinkRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM magic_links WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type exportRepo struct{ *PostgresStorage }

var _ repository.ExportRepository = (*exportRepo)(nil)

func (r *exportRepo) Create(ctx context.Context, e *domain.ExportRecord) (string, error) {
	e.ID = newID()
	e.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO exports (id, swimmer_id, requested_by, kind, scope, object_key, file_name,
		content_type, size, row_count, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.SwimmerID, e.RequestedBy, e.Kind, e.Scope, e.ObjectKey, e.FileName, e.ContentType, e.Size, e.Rows, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return "", repository.ErrDuplicate
		}
		r.logger.Errorf("failed to insert export record: %v", err)
		return "", err
	}
	return e.ID, nil
}

func (r *exportRepo) ListBySwimmer(ctx context.Context, swimmerID string, limit int) ([]domain.ExportRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, swimmer_id, requested_by, kind, scope, object_key, file_name,
		content_type, size, row_count, created_at FROM exports WHERE swimmer_id = $1 ORDER BY created_at DESC LIMIT $2`,
		swimmerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.ExportRecord{}
	for rows.Next() {
		var e domain.ExportRecord
		if err := rows.Scan(&e.ID, &e.SwimmerID, &e.RequestedBy, &e.Kind, &e.Scope, &e.ObjectKey, &e.FileName,
			&e.ContentType, &e.Size, &e.Rows, &e.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return records, rows.Err()
}
