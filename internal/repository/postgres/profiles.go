package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

type profileRepo struct{ *PostgresStorage }

var _ repository.ProfileRepository = (*profileRepo)(nil)

const profileColumns = `id, username, email, role, created_at, updated_at`

func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) (string, error) {
	if p.Email == "" || !p.Role.Valid() {
		return "", errors.New("profile email and a valid role are required")
	}
	if p.ID == "" {
		p.ID = newID()
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := r.pool.Exec(ctx, `INSERT INTO profiles (`+profileColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Username, p.Email, p.Role, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return "", repository.ErrDuplicate
		}
		r.logger.Errorf("failed to insert profile: %v", err)
		return "", err
	}
	return p.ID, nil
}

func (r *profileRepo) get(ctx context.Context, where string, arg any) (*domain.Profile, error) {
	var p domain.Profile
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where+` = $1`, arg)
	if err := row.Scan(&p.ID, &p.Username, &p.Email, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(ctx, "id", id)
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.get(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *profileRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY username`, role)
	if err != nil {
		r.logger.Errorf("failed to query profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			r.logger.Errorf("failed to scan profile: %v", err)
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
