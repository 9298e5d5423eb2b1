package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"swimteam/swimlog/internal/aggregate"
	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
	"swimteam/swimlog/internal/weeks"
)

// DefaultRHRHistoryDays is the window of the resting heart rate chart.
const DefaultRHRHistoryDays = 14

// ListQuery selects rows of one swimmer: the week around Date, everything
// when All is set, or the newest Limit rows (training only).
type ListQuery struct {
	Date  string
	All   bool
	Limit int
}

// WeekView is everything the weekly dashboard shows for one swimmer.
type WeekView struct {
	Swimmer   domain.Profile                 `json:"swimmer"`
	WeekStart string                         `json:"weekStart"`
	WeekEnd   string                         `json:"weekEnd"`
	WeekLabel string                         `json:"weekLabel"`
	Totals    aggregate.CategoryTotals       `json:"totals"`
	Efforts   aggregate.EffortTotals         `json:"efforts"`
	Days      [7]aggregate.Day               `json:"days"`
	Training  []domain.TrainingEntry         `json:"training"`
	RHR       []domain.RestingHeartRateEntry `json:"rhr"`
	Body      []domain.BodyMetricEntry       `json:"body"`
	Comment   *domain.WeeklyComment          `json:"comment"`
}

// EightWeekView is the trailing window overview.
type EightWeekView struct {
	Swimmer domain.Profile           `json:"swimmer"`
	Start   string                   `json:"start"`
	End     string                   `json:"end"`
	Weeks   []aggregate.Week         `json:"weeks"`
	Totals  aggregate.CategoryTotals `json:"totals"`
	Efforts aggregate.EffortTotals   `json:"efforts"`
}

// TrendsView holds the all-time series.
type TrendsView struct {
	Daily  []aggregate.DailyLoad `json:"daily"`
	Height []aggregate.BodyPoint `json:"height"`
	Weight []aggregate.BodyPoint `json:"weight"`
}

// RHRHistoryView is the zero-filled daily load and RHR of a short window.
type RHRHistoryView struct {
	Start string                `json:"start"`
	End   string                `json:"end"`
	Days  []aggregate.DailyLoad `json:"days"`
}

type DashboardService interface {
	Week(ctx context.Context, actor Actor, swimmerID, ref string) (*WeekView, error)
	EightWeeks(ctx context.Context, actor Actor, swimmerID, ref string) (*EightWeekView, error)
	Trends(ctx context.Context, actor Actor, swimmerID string) (*TrendsView, error)
	RHRHistory(ctx context.Context, actor Actor, swimmerID, ref string, days int) (*RHRHistoryView, error)

	Training(ctx context.Context, actor Actor, swimmerID string, q ListQuery) ([]domain.TrainingEntry, error)
	RHR(ctx context.Context, actor Actor, swimmerID string, q ListQuery) ([]domain.RestingHeartRateEntry, error)
	Body(ctx context.Context, actor Actor, swimmerID string, q ListQuery) ([]domain.BodyMetricEntry, error)
}

type dashboardService struct {
	team         TeamService
	trainingRepo repository.TrainingRepository
	rhrRepo      repository.RestingHeartRateRepository
	bodyRepo     repository.BodyMetricRepository
	commentRepo  repository.CommentRepository
}

func NewDashboardService(team TeamService, store repository.Store) DashboardService {
	return &dashboardService{
		team:         team,
		trainingRepo: store.Training,
		rhrRepo:      store.RHR,
		bodyRepo:     store.Body,
		commentRepo:  store.Comments,
	}
}

// dateOrToday parses ref, defaulting to today when empty.
func dateOrToday(ref string) (time.Time, error) {
	if strings.TrimSpace(ref) == "" {
		return weeks.Today(), nil
	}
	d, err := weeks.ParseDate(ref)
	if err != nil {
		return time.Time{}, invalid("%v", err)
	}
	return d, nil
}

func toDateRange(r weeks.Range) repository.DateRange {
	from, to := r.Strings()
	return repository.DateRange{From: from, To: to}
}

func (s *dashboardService) Week(ctx context.Context, actor Actor, swimmerID, ref string) (*WeekView, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	day, err := dateOrToday(ref)
	if err != nil {
		return nil, err
	}
	week := weeks.Bounds(day)
	dr := toDateRange(week)

	view := &WeekView{
		Swimmer:   *swimmer,
		WeekStart: dr.From,
		WeekEnd:   dr.To,
		WeekLabel: weeks.ISOWeekLabel(week.Start),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Training, err = s.trainingRepo.ListByUser(gctx, swimmer.ID, dr)
		return err
	})
	g.Go(func() (err error) {
		view.RHR, err = s.rhrRepo.ListByUser(gctx, swimmer.ID, dr)
		return err
	})
	g.Go(func() (err error) {
		view.Body, err = s.bodyRepo.ListByUser(gctx, swimmer.ID, dr)
		return err
	})
	g.Go(func() error {
		c, err := s.commentRepo.Get(gctx, swimmer.ID, dr.From)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		view.Comment = c
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.Totals = aggregate.TotalsByCategory(view.Training)
	view.Efforts = aggregate.TotalsByEffort(view.Training)
	view.Days = aggregate.PerDayBreakdown(view.Training, week.Start)
	return view, nil
}

func (s *dashboardService) EightWeeks(ctx context.Context, actor Actor, swimmerID, ref string) (*EightWeekView, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	day, err := dateOrToday(ref)
	if err != nil {
		return nil, err
	}
	window := weeks.TrailingWindow(day, weeks.DefaultWindowDays)
	dr := toDateRange(window)

	entries, err := s.trainingRepo.ListByUser(ctx, swimmer.ID, dr)
	if err != nil {
		return nil, err
	}
	return &EightWeekView{
		Swimmer: *swimmer,
		Start:   dr.From,
		End:     dr.To,
		Weeks:   aggregate.PerWeekBreakdown(entries, window.Start),
		Totals:  aggregate.TotalsByCategory(entries),
		Efforts: aggregate.TotalsByEffort(entries),
	}, nil
}

func (s *dashboardService) Trends(ctx context.Context, actor Actor, swimmerID string) (*TrendsView, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}

	var (
		training []domain.TrainingEntry
		rhr      []domain.RestingHeartRateEntry
		body     []domain.BodyMetricEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		training, err = s.trainingRepo.ListByUser(gctx, swimmer.ID, repository.DateRange{})
		return err
	})
	g.Go(func() (err error) {
		rhr, err = s.rhrRepo.ListByUser(gctx, swimmer.ID, repository.DateRange{})
		return err
	})
	g.Go(func() (err error) {
		body, err = s.bodyRepo.ListByUser(gctx, swimmer.ID, repository.DateRange{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &TrendsView{Daily: aggregate.DailySeries(training, rhr)}
	view.Height, view.Weight = aggregate.BodySeries(body)
	return view, nil
}

func (s *dashboardService) RHRHistory(ctx context.Context, actor Actor, swimmerID, ref string, days int) (*RHRHistoryView, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	day, err := dateOrToday(ref)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultRHRHistoryDays
	}
	if days > 366 {
		return nil, invalid("days must be at most 366")
	}
	window := weeks.TrailingWindow(day, days)
	dr := toDateRange(window)

	var (
		training []domain.TrainingEntry
		rhr      []domain.RestingHeartRateEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		training, err = s.trainingRepo.ListByUser(gctx, swimmer.ID, dr)
		return err
	})
	g.Go(func() (err error) {
		rhr, err = s.rhrRepo.ListByUser(gctx, swimmer.ID, dr)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &RHRHistoryView{
		Start: dr.From,
		End:   dr.To,
		Days:  aggregate.DailySeriesRange(training, rhr, window),
	}, nil
}

// rangeFor turns a list query into a date filter: all time or the week of q.Date.
func rangeFor(q ListQuery) (repository.DateRange, error) {
	if q.All {
		return repository.DateRange{}, nil
	}
	day, err := dateOrToday(q.Date)
	if err != nil {
		return repository.DateRange{}, err
	}
	return toDateRange(weeks.Bounds(day)), nil
}

func (s *dashboardService) Training(ctx context.Context, actor Actor, swimmerID string, q ListQuery) ([]domain.TrainingEntry, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	if q.Limit > 0 {
		if q.Limit > 500 {
			q.Limit = 500
		}
		return s.trainingRepo.ListRecent(ctx, swimmer.ID, q.Limit)
	}
	dr, err := rangeFor(q)
	if err != nil {
		return nil, err
	}
	return s.trainingRepo.ListByUser(ctx, swimmer.ID, dr)
}

func (s *dashboardService) RHR(ctx context.Context, actor Actor, swimmerID string, q ListQuery) ([]domain.RestingHeartRateEntry, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	dr, err := rangeFor(q)
	if err != nil {
		return nil, err
	}
	return s.rhrRepo.ListByUser(ctx, swimmer.ID, dr)
}

func (s *dashboardService) Body(ctx context.Context, actor Actor, swimmerID string, q ListQuery) ([]domain.BodyMetricEntry, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	dr, err := rangeFor(q)
	if err != nil {
		return nil, err
	}
	return s.bodyRepo.ListByUser(ctx, swimmer.ID, dr)
}
