package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rhyrak/smart-timetable/internal/csvio"
	"github.com/rhyrak/smart-timetable/internal/export"
	"github.com/rhyrak/smart-timetable/internal/scheduler"
	appErrors "github.com/rhyrak/smart-timetable/pkg/errors"
	"github.com/rhyrak/smart-timetable/pkg/model"
)

const defaultListLimit = 50

type RunStore interface {
	Create(ctx context.Context, run *model.ScheduleRun) error
	List(ctx context.Context, limit int) ([]model.ScheduleRun, error)
	FindByID(ctx context.Context, id string) (*model.ScheduleRun, error)
	Delete(ctx context.Context, id string) error
}

type RunCache interface {
	Get(ctx context.Context, id string) (string, error)
	Set(ctx context.Context, id string, data string) error
	Delete(ctx context.Context, id string) error
}

type Recorder interface {
	ObserveRun(status model.RunStatus, result *scheduler.Result)
	RecordCacheOperation(hit bool)
}

// GenerateResult is the outcome of one generation request.
type GenerateResult struct {
	Run         *model.ScheduleRun    `json:"run"`
	Valid       bool                  `json:"valid"`
	Complete    bool                  `json:"complete"`
	Diagnostics scheduler.Diagnostics `json:"diagnostics"`
}

// TimetableService runs the scheduler on uploaded records and keeps the
// resulting timetables.
type TimetableService struct {
	cfg     *scheduler.Configuration
	loader  *csvio.Loader
	store   RunStore
	cache   RunCache
	metrics Recorder
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

func NewTimetableService(cfg *scheduler.Configuration, store RunStore, cache RunCache, metrics Recorder, pdf *export.PDFExporter, logger *zap.Logger) *TimetableService {
	if cfg == nil {
		cfg = scheduler.NewDefaultConfiguration()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &TimetableService{
		cfg:     cfg,
		loader:  csvio.NewLoader(cfg.Delimiter, logger),
		store:   store,
		cache:   cache,
		metrics: metrics,
		pdf:     pdf,
		logger:  logger,
	}
}

// Generate loads the records, builds a timetable and persists the run.
// Each call uses its own engine state and random source.
func (s *TimetableService) Generate(ctx context.Context, src csvio.Sources) (*GenerateResult, error) {
	in, err := s.loader.Load(src)
	if err != nil {
		return nil, err
	}

	cfg := *s.cfg
	cfg.Seed = scheduler.ResolveSeed(s.cfg.Seed)
	result := scheduler.Generate(in, &cfg, scheduler.NewRandom(cfg.Seed), s.logger)
	valid, complete, report := scheduler.Validate(in, result, &cfg)

	data, err := csvio.ExportScheduleString(result.Lectures)
	if err != nil {
		return nil, err
	}

	run := &model.ScheduleRun{
		ID:            uuid.NewString(),
		Status:        runStatus(valid, complete),
		Report:        report,
		Data:          data,
		LectureCount:  len(result.Lectures),
		UnplacedCount: result.Diagnostics.MissingHours(),
		Seed:          strconv.FormatUint(cfg.Seed, 10),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Create(ctx, run); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInternal, err, "failed to store schedule run")
	}
	s.cacheSet(ctx, run.ID, data)
	if s.metrics != nil {
		s.metrics.ObserveRun(run.Status, result)
	}

	s.logger.Info("schedule run stored",
		zap.String("id", run.ID),
		zap.String("status", string(run.Status)),
		zap.String("seed", run.Seed))

	return &GenerateResult{
		Run:         run,
		Valid:       valid,
		Complete:    complete,
		Diagnostics: result.Diagnostics,
	}, nil
}

// List returns recent runs without their CSV data.
func (s *TimetableService) List(ctx context.Context) ([]model.ScheduleRun, error) {
	runs, err := s.store.List(ctx, defaultListLimit)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInternal, err, "failed to list schedule runs")
	}
	return runs, nil
}

func (s *TimetableService) Get(ctx context.Context, id string) (*model.ScheduleRun, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	run, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "failed to load schedule run")
	}
	return run, nil
}

// CSV returns the exported timetable of a run, from the cache when possible.
func (s *TimetableService) CSV(ctx context.Context, id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	data, err := s.cacheGet(ctx, id)
	if err == nil {
		return data, nil
	}

	run, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", notFoundOr(err, "failed to load schedule run")
	}
	s.cacheSet(ctx, id, run.Data)
	return run.Data, nil
}

// PDF renders a stored run as a PDF document.
func (s *TimetableService) PDF(ctx context.Context, id string) ([]byte, error) {
	data, err := s.CSV(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := csvio.ParseSchedule(data)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrExport, err, "stored schedule is unreadable")
	}
	return s.pdf.Render(rows)
}

func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return notFoundOr(err, "failed to delete schedule run")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.Warn("cache delete failed", zap.String("id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *TimetableService) cacheGet(ctx context.Context, id string) (string, error) {
	if s.cache == nil {
		return "", appErrors.ErrCacheMiss
	}
	data, err := s.cache.Get(ctx, id)
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(err == nil)
	}
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache lookup failed", zap.String("id", id), zap.Error(err))
	}
	return data, err
}

func (s *TimetableService) cacheSet(ctx context.Context, id, data string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, id, data); err != nil {
		s.logger.Warn("cache write failed", zap.String("id", id), zap.Error(err))
	}
}

func runStatus(valid, complete bool) model.RunStatus {
	switch {
	case !valid:
		return model.RunStatusInvalid
	case !complete:
		return model.RunStatusIncomplete
	default:
		return model.RunStatusComplete
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid schedule id")
	}
	return nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule run not found")
	}
	return appErrors.WrapAs(appErrors.ErrInternal, err, message)
}
