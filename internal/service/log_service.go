package service

import (
	"context"
	"errors"
	"strings"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/repository"
)

// TrainingInput is a training session as entered on the logging form.
type TrainingInput struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Category        string `json:"category" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=1,max=1440"`
	HeartRate       *int   `json:"heartRate" validate:"omitempty,min=20,max=250"`
	Effort          string `json:"effort" validate:"required"`
	Complexity      int    `json:"complexity" validate:"required,min=1,max=3"`
	Details         string `json:"details" validate:"max=2000"`
}

// RHRInput is one morning resting heart rate.
type RHRInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	BPM  int    `json:"bpm" validate:"required,min=20,max=200"`
}

// BodyInput is a height and/or weight measurement.
type BodyInput struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	HeightCm *float64 `json:"heightCm" validate:"omitempty,gt=0,lt=300"`
	WeightKg *float64 `json:"weightKg" validate:"omitempty,gt=0,lt=500"`
}

// LogService records and edits a swimmer's own measurements.
type LogService interface {
	AddTraining(ctx context.Context, actor Actor, in TrainingInput) (*domain.TrainingEntry, error)
	UpdateTraining(ctx context.Context, actor Actor, id string, in TrainingInput) (*domain.TrainingEntry, error)
	RecordRHR(ctx context.Context, actor Actor, in RHRInput) (*domain.RestingHeartRateEntry, error)
	UpdateRHR(ctx context.Context, actor Actor, id string, in RHRInput) (*domain.RestingHeartRateEntry, error)
	AddBody(ctx context.Context, actor Actor, in BodyInput) (*domain.BodyMetricEntry, error)
	UpdateBody(ctx context.Context, actor Actor, id string, in BodyInput) (*domain.BodyMetricEntry, error)
}

type logService struct {
	trainingRepo repository.TrainingRepository
	rhrRepo      repository.RestingHeartRateRepository
	bodyRepo     repository.BodyMetricRepository
	log          logger.Logger
}

func NewLogService(
	trainingRepo repository.TrainingRepository,
	rhrRepo repository.RestingHeartRateRepository,
	bodyRepo repository.BodyMetricRepository,
	log logger.Logger,
) LogService {
	return &logService{
		trainingRepo: trainingRepo,
		rhrRepo:      rhrRepo,
		bodyRepo:     bodyRepo,
		log:          log,
	}
}

// Only swimmers keep a log; coaches review it.
func requireSwimmer(actor Actor) error {
	if actor.Role != domain.RoleSwimmer {
		return ErrAccessDenied
	}
	return nil
}

func (in TrainingInput) apply(e *domain.TrainingEntry) error {
	if err := validateInput(in); err != nil {
		return err
	}
	category, ok := domain.NormalizeCategory(in.Category)
	if !ok {
		return invalid("category %q is not one of Morning Swim, Afternoon Swim, Land Training, Other Activity", in.Category)
	}
	effort, ok := domain.NormalizeEffort(in.Effort)
	if !ok {
		return invalid("effort %q is not one of Green, White, Red", in.Effort)
	}
	e.Date = in.Date
	e.Category = category
	e.DurationMinutes = in.DurationMinutes
	e.HeartRate = in.HeartRate
	e.Effort = effort
	e.Complexity = in.Complexity
	e.Details = strings.TrimSpace(in.Details)
	return nil
}

func (s *logService) AddTraining(ctx context.Context, actor Actor, in TrainingInput) (*domain.TrainingEntry, error) {
	if err := requireSwimmer(actor); err != nil {
		return nil, err
	}
	e := &domain.TrainingEntry{UserID: actor.ID}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	if _, err := s.trainingRepo.Create(ctx, e); err != nil {
		s.log.Errorf("create training entry for %s: %v", actor.ID, err)
		return nil, err
	}
	return e, nil
}

func (s *logService) UpdateTraining(ctx context.Context, actor Actor, id string, in TrainingInput) (*domain.TrainingEntry, error) {
	e, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, entryErr(err)
	}
	if !actor.canEdit(e.UserID) {
		return nil, ErrAccessDenied
	}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	if err := s.trainingRepo.Update(ctx, e); err != nil {
		return nil, entryErr(err)
	}
	return e, nil
}

func (in RHRInput) validate() error {
	return validateInput(in)
}

// RecordRHR stores the morning value, replacing an earlier one for the same date.
func (s *logService) RecordRHR(ctx context.Context, actor Actor, in RHRInput) (*domain.RestingHeartRateEntry, error) {
	if err := requireSwimmer(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	e := &domain.RestingHeartRateEntry{UserID: actor.ID, Date: in.Date, BPM: in.BPM}
	if err := s.rhrRepo.Upsert(ctx, e); err != nil {
		s.log.Errorf("upsert resting heart rate for %s: %v", actor.ID, err)
		return nil, err
	}
	return e, nil
}

func (s *logService) UpdateRHR(ctx context.Context, actor Actor, id string, in RHRInput) (*domain.RestingHeartRateEntry, error) {
	e, err := s.rhrRepo.GetByID(ctx, id)
	if err != nil {
		return nil, entryErr(err)
	}
	if !actor.canEdit(e.UserID) {
		return nil, ErrAccessDenied
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	e.Date, e.BPM = in.Date, in.BPM
	if err := s.rhrRepo.Update(ctx, e); err != nil {
		return nil, entryErr(err)
	}
	return e, nil
}

func (in BodyInput) validate() error {
	if err := validateInput(in); err != nil {
		return err
	}
	if in.HeightCm == nil && in.WeightKg == nil {
		return invalid("heightCm or weightKg is required")
	}
	return nil
}

func (s *logService) AddBody(ctx context.Context, actor Actor, in BodyInput) (*domain.BodyMetricEntry, error) {
	if err := requireSwimmer(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	e := &domain.BodyMetricEntry{UserID: actor.ID, Date: in.Date, HeightCm: in.HeightCm, WeightKg: in.WeightKg}
	if _, err := s.bodyRepo.Create(ctx, e); err != nil {
		s.log.Errorf("create body metric for %s: %v", actor.ID, err)
		return nil, err
	}
	return e, nil
}

func (s *logService) UpdateBody(ctx context.Context, actor Actor, id string, in BodyInput) (*domain.BodyMetricEntry, error) {
	e, err := s.bodyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, entryErr(err)
	}
	if !actor.canEdit(e.UserID) {
		return nil, ErrAccessDenied
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	e.Date, e.HeightCm, e.WeightKg = in.Date, in.HeightCm, in.WeightKg
	if err := s.bodyRepo.Update(ctx, e); err != nil {
		return nil, entryErr(err)
	}
	return e, nil
}

func entryErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrEntryNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateEntry
	}
	return err
}
