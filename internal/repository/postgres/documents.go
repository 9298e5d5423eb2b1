package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

type commentRepo struct{ *PostgresStorage }

var _ repository.CommentRepository = (*commentRepo)(nil)

func (r *commentRepo) Get(ctx context.Context, swimmerID, weekStart string) (*domain.WeeklyComment, error) {
	var c domain.WeeklyComment
	row := r.pool.QueryRow(ctx, `SELECT swimmer_id, coach_id, to_char(week_start, 'YYYY-MM-DD'), comment, updated_at
		FROM weekly_comments WHERE swimmer_id = $1 AND week_start = $2::date`, swimmerID, weekStart)
	if err := row.Scan(&c.SwimmerID, &c.CoachID, &c.WeekStart, &c.Text, &c.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *commentRepo) Upsert(ctx context.Context, c *domain.WeeklyComment) error {
	if c.SwimmerID == "" || c.WeekStart == "" {
		return errors.New("comment requires swimmerId and weekStart")
	}
	c.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO weekly_comments (swimmer_id, week_start, coach_id, comment, updated_at)
		VALUES ($1, $2::date, $3, $4, $5)
		ON CONFLICT (swimmer_id, week_start) DO UPDATE
		SET coach_id = EXCLUDED.coach_id, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at`,
		c.SwimmerID, c.WeekStart, c.CoachID, c.Text, c.UpdatedAt)
	if err != nil {
		r.logger.Errorf("failed to upsert weekly comment: %v", err)
	}
	return err
}

type planRepo struct{ *PostgresStorage }

var _ repository.PlanRepository = (*planRepo)(nil)

// Get returns the stored JSON decoded without interpretation; shaping it
// is left to the caller.
func (r *planRepo) Get(ctx context.Context, swimmerID string) (*domain.TechniquePlan, error) {
	var (
		p   domain.TechniquePlan
		raw []byte
	)
	row := r.pool.QueryRow(ctx, `SELECT user_id, data, updated_by, updated_at FROM technique_plans WHERE user_id = $1`, swimmerID)
	if err := row.Scan(&p.SwimmerID, &raw, &p.UpdatedBy, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.Data); err != nil {
			return nil, fmt.Errorf("decode plan of %s: %w", swimmerID, err)
		}
	}
	return &p, nil
}

// Upsert replaces the whole plan of the swimmer.
func (r *planRepo) Upsert(ctx context.Context, p *domain.TechniquePlan) error {
	data, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	p.UpdatedAt = time.Now().UTC()
	_, err = r.pool.Exec(ctx, `INSERT INTO technique_plans (user_id, data, updated_by, updated_at)
		VALUES ($1, $2::jsonb, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`,
		p.SwimmerID, string(data), p.UpdatedBy, p.UpdatedAt)
	if err != nil {
		r.logger.Errorf("failed to upsert technique plan: %v", err)
	}
	return err
}

type goalRepo struct{ *PostgresStorage }

var _ repository.GoalRepository = (*goalRepo)(nil)

func (r *goalRepo) Get(ctx context.Context, userID string, year int) (*domain.SeasonGoal, error) {
	var g domain.SeasonGoal
	row := r.pool.QueryRow(ctx, `SELECT user_id, season_year, goal_text, updated_at
		FROM goals_yearly WHERE user_id = $1 AND season_year = $2`, userID, year)
	if err := row.Scan(&g.UserID, &g.SeasonYear, &g.GoalText, &g.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *goalRepo) Upsert(ctx context.Context, g *domain.SeasonGoal) error {
	g.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO goals_yearly (user_id, season_year, goal_text, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, season_year) DO UPDATE
		SET goal_text = EXCLUDED.goal_text, updated_at = EXCLUDED.updated_at`,
		g.UserID, g.SeasonYear, g.GoalText, g.UpdatedAt)
	return err
}

type settingsRepo struct{ *PostgresStorage }

var _ repository.SettingsRepository = (*settingsRepo)(nil)

func (r *settingsRepo) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	var s domain.Settings
	row := r.pool.QueryRow(ctx, `SELECT user_id, selected_swimmer_id, view_mode, reference_date, updated_at
		FROM settings WHERE user_id = $1`, userID)
	if err := row.Scan(&s.UserID, &s.SelectedSwimmerID, &s.ViewMode, &s.ReferenceDate, &s.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, s *domain.Settings) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO settings (user_id, selected_swimmer_id, view_mode, reference_date, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET selected_swimmer_id = EXCLUDED.selected_swimmer_id, view_mode = EXCLUDED.view_mode,
			reference_date = EXCLUDED.reference_date, updated_at = EXCLUDED.updated_at`,
		s.UserID, s.SelectedSwimmerID, s.ViewMode, s.ReferenceDate, s.UpdatedAt)
	return err
}
