package service

import (
	"context"
	"errors"
	"time"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/repository"
	"swimteam/swimlog/internal/techplan"
)

// PlanView is a technique plan in its normalized shape.
type PlanView struct {
	SwimmerID string            `json:"swimmerId"`
	Plan      techplan.Document `json:"plan"`
	UpdatedBy string            `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

type PlanService interface {
	// Get returns the swimmer's plan, or an empty plan with one blank row per
	// list when none was saved. Stored data that is not a JSON object yields
	// ErrPlanUnavailable.
	Get(ctx context.Context, actor Actor, swimmerID string) (*PlanView, error)
	// Put replaces the whole plan. Coaches only.
	Put(ctx context.Context, actor Actor, swimmerID string, raw any) (*PlanView, error)
	// Print renders the plan as a standalone HTML fragment.
	Print(ctx context.Context, actor Actor, swimmerID string) ([]byte, error)
}

type planService struct {
	team     TeamService
	planRepo repository.PlanRepository
	log      logger.Logger
	now      func() time.Time
}

func NewPlanService(team TeamService, planRepo repository.PlanRepository, log logger.Logger) PlanService {
	return &planService{team: team, planRepo: planRepo, log: log, now: time.Now}
}

func (s *planService) Get(ctx context.Context, actor Actor, swimmerID string) (*PlanView, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, swimmer.ID)
}

func (s *planService) load(ctx context.Context, swimmerID string) (*PlanView, error) {
	stored, err := s.planRepo.Get(ctx, swimmerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &PlanView{SwimmerID: swimmerID, Plan: techplan.Empty()}, nil
		}
		return nil, err
	}
	doc, err := techplan.Decode(stored.Data)
	if err != nil {
		s.log.Warnf("technique plan of %s is unreadable: %v", swimmerID, err)
		return nil, ErrPlanUnavailable
	}
	updatedAt := stored.UpdatedAt
	return &PlanView{
		SwimmerID: swimmerID,
		Plan:      doc,
		UpdatedBy: stored.UpdatedBy,
		UpdatedAt: &updatedAt,
	}, nil
}

func (s *planService) Put(ctx context.Context, actor Actor, swimmerID string, raw any) (*PlanView, error) {
	if !actor.IsCoach() {
		return nil, ErrAccessDenied
	}
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	// Decode treats nil as the empty plan; a write must never reset one that way.
	if raw == nil {
		return nil, invalid("plan must be a JSON object")
	}
	doc, err := techplan.Decode(raw)
	if err != nil {
		return nil, invalid("plan must be a JSON object")
	}
	if err := techplan.Validate(doc); err != nil {
		return nil, invalid("%v", err)
	}

	now := s.now().UTC()
	plan := &domain.TechniquePlan{
		SwimmerID: swimmer.ID,
		Data:      doc.Map(),
		UpdatedBy: actor.ID,
		UpdatedAt: now,
	}
	if err := s.planRepo.Upsert(ctx, plan); err != nil {
		return nil, err
	}
	s.log.Infof("technique plan of %s saved by %s", swimmer.ID, actor.ID)
	return &PlanView{SwimmerID: swimmer.ID, Plan: doc, UpdatedBy: actor.ID, UpdatedAt: &now}, nil
}

func (s *planService) Print(ctx context.Context, actor Actor, swimmerID string) ([]byte, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	view, err := s.load(ctx, swimmer.ID)
	if err != nil {
		return nil, err
	}
	return techplan.HTML(swimmer.Username, view.Plan)
}
