package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"swimteam/swimlog/internal/csvexport"
	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/repository"
	"swimteam/swimlog/internal/storage"
)

const (
	ScopeWeek = "week"
	ScopeAll  = "all"

	csvContentType = "text/csv; charset=utf-8"
)

// --- Error Definitions ---
var (
	ErrArchiveFailed    = errors.New("failed to archive export")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

// ExportFile is a rendered CSV ready to be sent as an attachment.
type ExportFile struct {
	Kind        csvexport.Kind
	Scope       string
	FileName    string
	ContentType string
	Body        []byte
	Rows        int
}

// ArchiveResponse describes an export stored in the bucket.
type ArchiveResponse struct {
	Export      domain.ExportRecord `json:"export"`
	DownloadURL string              `json:"downloadUrl"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

type ExportService interface {
	// CSV renders one table of a swimmer for the week around date, or for
	// all time when scope is "all".
	CSV(ctx context.Context, actor Actor, swimmerID, kind, scope, date string) (*ExportFile, error)
	// Archive renders the same CSV, stores it in object storage and returns
	// a temporary download URL. It fails with ErrExportDisabled without storage.
	Archive(ctx context.Context, actor Actor, swimmerID, kind, scope, date string) (*ArchiveResponse, error)
	ListArchives(ctx context.Context, actor Actor, swimmerID string) ([]domain.ExportRecord, error)
}

// exportService implements the ExportService interface.
type exportService struct {
	team         TeamService
	trainingRepo repository.TrainingRepository
	rhrRepo      repository.RestingHeartRateRepository
	bodyRepo     repository.BodyMetricRepository
	exportRepo   repository.ExportRepository
	fileStorage  storage.FileStorage // nil when archiving is off
	urlExpiry    time.Duration
	log          logger.Logger
	now          func() time.Time
}

// NewExportService creates a new instance of exportService. fileStorage may
// be nil.
func NewExportService(
	team TeamService,
	store repository.Store,
	fileStorage storage.FileStorage,
	urlExpiry time.Duration,
	log logger.Logger,
) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		team:         team,
		trainingRepo: store.Training,
		rhrRepo:      store.RHR,
		bodyRepo:     store.Body,
		exportRepo:   store.Exports,
		fileStorage:  fileStorage,
		urlExpiry:    urlExpiry,
		log:          log,
		now:          time.Now,
	}
}

func parseScope(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ScopeWeek:
		return ScopeWeek, nil
	case ScopeAll:
		return ScopeAll, nil
	}
	return "", invalid("scope must be week or all")
}

func (s *exportService) render(ctx context.Context, swimmerID string, kind csvexport.Kind, scope, date string) (*ExportFile, error) {
	dr, err := rangeFor(ListQuery{Date: date, All: scope == ScopeAll})
	if err != nil {
		return nil, err
	}

	var (
		body string
		rows int
	)
	switch kind {
	case csvexport.KindTraining:
		entries, err := s.trainingRepo.ListByUser(ctx, swimmerID, dr)
		if err != nil {
			return nil, err
		}
		body, rows = csvexport.Training(entries), len(entries)
	case csvexport.KindRHR:
		entries, err := s.rhrRepo.ListByUser(ctx, swimmerID, dr)
		if err != nil {
			return nil, err
		}
		body, rows = csvexport.RestingHeartRate(entries), len(entries)
	case csvexport.KindBody:
		entries, err := s.bodyRepo.ListByUser(ctx, swimmerID, dr)
		if err != nil {
			return nil, err
		}
		body, rows = csvexport.Body(entries), len(entries)
	default:
		return nil, invalid("unknown export kind %q", kind)
	}

	return &ExportFile{
		Kind:        kind,
		Scope:       scope,
		FileName:    csvexport.Filename(kind, scope),
		ContentType: csvContentType,
		Body:        []byte(body),
		Rows:        rows,
	}, nil
}

func (s *exportService) prepare(ctx context.Context, actor Actor, swimmerID, kind, scope, date string) (*domain.Profile, *ExportFile, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, nil, err
	}
	k, err := csvexport.ParseKind(kind)
	if err != nil {
		return nil, nil, invalid("%v", err)
	}
	sc, err := parseScope(scope)
	if err != nil {
		return nil, nil, err
	}
	file, err := s.render(ctx, swimmer.ID, k, sc, date)
	if err != nil {
		return nil, nil, err
	}
	return swimmer, file, nil
}

func (s *exportService) CSV(ctx context.Context, actor Actor, swimmerID, kind, scope, date string) (*ExportFile, error) {
	_, file, err := s.prepare(ctx, actor, swimmerID, kind, scope, date)
	return file, err
}

func (s *exportService) Archive(ctx context.Context, actor Actor, swimmerID, kind, scope, date string) (*ArchiveResponse, error) {
	if s.fileStorage == nil {
		return nil, ErrExportDisabled
	}
	swimmer, file, err := s.prepare(ctx, actor, swimmerID, kind, scope, date)
	if err != nil {
		return nil, err
	}

	objectKey := storage.ExportKey(swimmer.ID, file.FileName)
	if err := s.fileStorage.PutObject(ctx, objectKey, file.ContentType, file.Body); err != nil {
		s.log.Errorf("export upload %s failed: %v", objectKey, err)
		return nil, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}

	rec := &domain.ExportRecord{
		SwimmerID:   swimmer.ID,
		RequestedBy: actor.ID,
		Kind:        string(file.Kind),
		Scope:       file.Scope,
		ObjectKey:   objectKey,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        int64(len(file.Body)),
		Rows:        file.Rows,
		CreatedAt:   s.now().UTC(),
	}
	id, err := s.exportRepo.Create(ctx, rec)
	if err != nil {
		// Compensate so the bucket holds no file without metadata.
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			s.log.Errorf("failed to delete orphaned export %s: %v", objectKey, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}
	rec.ID = id

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.urlExpiry)
	if err != nil {
		return nil, ErrDownloadURLError
	}
	s.log.Infof("export %s archived for swimmer %s (%d rows)", rec.ID, swimmer.ID, rec.Rows)
	return &ArchiveResponse{
		Export:      *rec,
		DownloadURL: url,
		ExpiresAt:   rec.CreatedAt.Add(s.urlExpiry),
	}, nil
}

func (s *exportService) ListArchives(ctx context.Context, actor Actor, swimmerID string) ([]domain.ExportRecord, error) {
	swimmer, err := s.team.ResolveSwimmer(ctx, actor, swimmerID)
	if err != nil {
		return nil, err
	}
	return s.exportRepo.ListBySwimmer(ctx, swimmer.ID, 50)
}
