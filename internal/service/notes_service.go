package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/repository"
	"swimteam/swimlog/internal/weeks"
)

const maxNoteLength = 5000

type SettingsInput struct {
	SelectedSwimmerID string `validate:"omitempty,max=64"`
	ViewMode          string `validate:"required,oneof=week 8weeks"`
	ReferenceDate     string `validate:"omitempty,datetime=2006-01-02"`
}

// NotesService manages the free-text parts of the log: weekly coach
// comments, season goals and per-user view settings.
type NotesService interface {
	// GetComment returns the coach comment of the week containing date. A
	// week without a comment yields an empty comment, not an error.
	GetComment(ctx context.Context, actor Actor, swimmerID, date string) (*domain.WeeklyComment, error)
	PutComment(ctx context.Context, actor Actor, swimmerID, date, text string) (*domain.WeeklyComment, error)

	GetGoal(ctx context.Context, actor Actor, swimmerID string, year int) (*domain.SeasonGoal, error)
	PutGoal(ctx context.Context, actor Actor, swimmerID string, year int, text string) (*domain.SeasonGoal, error)

	GetSettings(ctx context.Context, actor Actor) (*domain.Settings, error)
	PutSettings(ctx context.Context, actor Actor, in SettingsInput) (*domain.Settings, error)
}

type notesService struct {
	team         TeamService
	commentRepo  repository.CommentRepository
	goalRepo     repository.GoalRepository
	settingsRepo repository.SettingsRepository
	log          logger.Logger
	now          func() time.Time
}

func NewNotesService(team TeamService, store repository.Store, log logger.Logger) NotesService {
	return &notesService{
		team:         team,
		commentRepo:  store.Comments,
		goalRepo:     store.Goals,
		settingsRepo: store.Settings,
		log:          log,
		now:          time.Now,
	}
}

// weekStartOf snaps date (today when empty) to the Monday of its week.
func weekStartOf(date string) (string, error) {
	day, err := dateOrToday(date)
	if err != nil {
		return "", err
	}
	return weeks.FormatDate(weeks.Monday(day)), nil
}

func (s *notesService) GetComment(ctx context.Context, actor Actor, swimmerID, date string) (*domain.WeeklyComment, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	weekStart, err := weekStartOf(date)
	if err != nil {
		return nil, err
	}
	c, err := s.commentRepo.Get(ctx, swimmer.ID, weekStart)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.WeeklyComment{SwimmerID: swimmer.ID, WeekStart: weekStart}, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *notesService) PutComment(ctx context.Context, actor Actor, swimmerID, date, text string) (*domain.WeeklyComment, error) {
	if !actor.IsCoach() {
		return nil, ErrAccessDenied
	}
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	weekStart, err := weekStartOf(date)
	if err != nil {
		return nil, err
	}
	if len(text) > maxNoteLength {
		return nil, invalid("comment must be at most %d characters", maxNoteLength)
	}
	c := &domain.WeeklyComment{
		SwimmerID: swimmer.ID,
		CoachID:   actor.ID,
		WeekStart: weekStart,
		Text:      strings.TrimSpace(text),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.commentRepo.Upsert(ctx, c); err != nil {
		s.log.Errorf("upsert comment for %s week %s: %v", swimmer.ID, weekStart, err)
		return nil, err
	}
	return c, nil
}

func checkSeasonYear(year int) error {
	if year < 2000 || year > 2100 {
		return invalid("season year must be between 2000 and 2100")
	}
	return nil
}

func (s *notesService) GetGoal(ctx context.Context, actor Actor, swimmerID string, year int) (*domain.SeasonGoal, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	if err := checkSeasonYear(year); err != nil {
		return nil, err
	}
	g, err := s.goalRepo.Get(ctx, swimmer.ID, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.SeasonGoal{UserID: swimmer.ID, SeasonYear: year}, nil
		}
		return nil, err
	}
	return g, nil
}

func (s *notesService) PutGoal(ctx context.Context, actor Actor, swimmerID string, year int, text string) (*domain.SeasonGoal, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	// A season goal is written by its owner only; coaches read it.
	if actor.ID != swimmer.ID {
		return nil, ErrAccessDenied
	}
	if err := checkSeasonYear(year); err != nil {
		return nil, err
	}
	if len(text) > maxNoteLength {
		return nil, invalid("goal must be at most %d characters", maxNoteLength)
	}
	g := &domain.SeasonGoal{
		UserID:     swimmer.ID,
		SeasonYear: year,
		GoalText:   strings.TrimSpace(text),
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.goalRepo.Upsert(ctx, g); err != nil {
		s.log.Errorf("upsert goal %d for %s: %v", year, swimmer.ID, err)
		return nil, err
	}
	return g, nil
}

func (s *notesService) GetSettings(ctx context.Context, actor Actor) (*domain.Settings, error) {
	st, err := s.settingsRepo.Get(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			def := domain.DefaultSettings(actor.ID)
			return &def, nil
		}
		return nil, err
	}
	return st, nil
}

// PutSettings saves the view state. A swimmer's selection is always
// themselves; a coach may only select an existing swimmer.
func (s *notesService) PutSettings(ctx context.Context, actor Actor, in SettingsInput) (*domain.Settings, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	selected := in.SelectedSwimmerID
	if !actor.IsCoach() {
		selected = actor.ID
	} else if selected != "" {
		if _, err := s.team.ResolveSwimmer(ctx, actor, selected); err != nil {
			return nil, err
		}
	}
	st := &domain.Settings{
		UserID:            actor.ID,
		SelectedSwimmerID: selected,
		ViewMode:          domain.ViewMode(in.ViewMode),
		ReferenceDate:     in.ReferenceDate,
		UpdatedAt:         s.now().UTC(),
	}
	if err := s.settingsRepo.Upsert(ctx, st); err != nil {
		s.log.Errorf("upsert settings for %s: %v", actor.ID, err)
		return nil, err
	}
	return st, nil
}
