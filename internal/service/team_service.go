package service

import (
	"context"
	"errors"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

// TeamService answers who is on the team and who may see whose data.
type TeamService interface {
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	ListSwimmers(ctx context.Context, actor Actor) ([]domain.Profile, error)
	// ResolveSwimmer loads the swimmer whose data actor wants to see.
	// Swimmers may only resolve themselves; coaches may resolve any swimmer.
	ResolveSwimmer(ctx context.Context, actor Actor, swimmerID string) (*domain.Profile, error)
}

// teamService implements the TeamService interface.
type teamService struct {
	profileRepo repository.ProfileRepository
}

// NewTeamService creates a new instance of teamService.
func NewTeamService(profileRepo repository.ProfileRepository) TeamService {
	return &teamService{profileRepo: profileRepo}
}

func (s *teamService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSwimmerNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListSwimmers returns every swimmer ordered by username. Coaches only.
func (s *teamService) ListSwimmers(ctx context.Context, actor Actor) ([]domain.Profile, error) {
	if !actor.IsCoach() {
		return nil, ErrAccessDenied
	}
	return s.profileRepo.ListByRole(ctx, domain.RoleSwimmer)
}

func (s *teamService) ResolveSwimmer(ctx context.Context, actor Actor, swimmerID string) (*domain.Profile, error) {
	if swimmerID == "" {
		return nil, invalid("swimmer id is required")
	}
	if !actor.IsCoach() && actor.ID != swimmerID {
		return nil, ErrAccessDenied
	}
	p, err := s.GetProfile(ctx, swimmerID)
	if err != nil {
		return nil, err
	}
	if !p.IsSwimmer() {
		return nil, ErrSwimmerNotFound
	}
	return p, nil
}
