package repository

import (
	"context"
	"time"

	"swimteam/swimlog/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DateRange filters on YYYY-MM-DD dates, both ends inclusive. An empty end
// is unbounded.
type DateRange struct {
	From string
	To   string
}

// ProfileRepository reads the provisioned team members.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error) // Ordered by username
}

// TrainingRepository stores training sessions.
type TrainingRepository interface {
	Create(ctx context.Context, e *domain.TrainingEntry) (string, error)
	GetByID(ctx context.Context, id string) (*domain.TrainingEntry, error)
	Update(ctx context.Context, e *domain.TrainingEntry) error
	ListByUser(ctx context.Context, userID string, r DateRange) ([]domain.TrainingEntry, error) // Ascending by date
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.TrainingEntry, error)   // Newest first
}

// RestingHeartRateRepository stores one RHR value per user and date.
type RestingHeartRateRepository interface {
	Upsert(ctx context.Context, e *domain.RestingHeartRateEntry) error // Keyed by (UserID, Date); sets e.ID
	GetByID(ctx context.Context, id string) (*domain.RestingHeartRateEntry, error)
	Update(ctx context.Context, e *domain.RestingHeartRateEntry) error
	ListByUser(ctx context.Context, userID string, r DateRange) ([]domain.RestingHeartRateEntry, error)
}

// BodyMetricRepository stores height and weight measurements.
type BodyMetricRepository interface {
	Create(ctx context.Context, e *domain.BodyMetricEntry) (string, error)
	GetByID(ctx context.Context, id string) (*domain.BodyMetricEntry, error)
	Update(ctx context.Context, e *domain.BodyMetricEntry) error
	ListByUser(ctx context.Context, userID string, r DateRange) ([]domain.BodyMetricEntry, error)
}

// CommentRepository stores weekly coach comments keyed by (SwimmerID, WeekStart).
type CommentRepository interface {
	Get(ctx context.Context, swimmerID, weekStart string) (*domain.WeeklyComment, error)
	Upsert(ctx context.Context, c *domain.WeeklyComment) error
}

// PlanRepository stores one technique plan per swimmer. Upsert replaces
// the whole document.
type PlanRepository interface {
	Get(ctx context.Context, swimmerID string) (*domain.TechniquePlan, error)
	Upsert(ctx context.Context, p *domain.TechniquePlan) error
}

// GoalRepository stores season goals keyed by (UserID, SeasonYear).
type GoalRepository interface {
	Get(ctx context.Context, userID string, year int) (*domain.SeasonGoal, error)
	Upsert(ctx context.Context, g *domain.SeasonGoal) error
}

// SettingsRepository stores per-user view settings.
type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
}

// MagicLinkRepository stores pending sign-in links.
type MagicLinkRepository interface {
	Create(ctx context.Context, l *domain.MagicLink) error
	GetByID(ctx context.Context, id string) (*domain.MagicLink, error)
	// MarkUsed consumes the link. It returns ErrNotFound when the link does
	// not exist or was already used, so a link can be redeemed only once.
	MarkUsed(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ExportRepository stores metadata of archived CSV exports.
type ExportRepository interface {
	Create(ctx context.Context, e *domain.ExportRecord) (string, error)
	ListBySwimmer(ctx context.Context, swimmerID string, limit int) ([]domain.ExportRecord, error) // Newest first
}

// Store bundles every repository of one backend.
type Store struct {
	Profiles   ProfileRepository
	Training   TrainingRepository
	RHR        RestingHeartRateRepository
	Body       BodyMetricRepository
	Comments   CommentRepository
	Plans      PlanRepository
	Goals      GoalRepository
	Settings   SettingsRepository
	MagicLinks MagicLinkRepository
	Exports    ExportRepository
}
