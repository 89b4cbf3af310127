// Package service sequences acquisition, auditing and modeling into a report.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crgg/internal/adapters/acquire"
	"github.com/okian/crgg/internal/adapters/audit"
	"github.com/okian/crgg/internal/adapters/mq/queue"
	"github.com/okian/crgg/internal/adapters/mq/worker"
	"github.com/okian/crgg/internal/adapters/repository"
	"github.com/okian/crgg/internal/domain/dedupe"
	"github.com/okian/crgg/internal/domain/model"
	"github.com/okian/crgg/internal/domain/scoring"
	"github.com/okian/crgg/pkg/logger"
	"github.com/okian/crgg/pkg/metrics"
)

const (
	defaultSearchType       = "dentist"
	defaultLimit            = 5
	defaultAuditConcurrency = 4
	defaultInflightSize     = 1024
	defaultHistorySize      = 1000
)

// Service implements the report pipeline used by the HTTP API and the CLI.
type Service struct {
	mu sync.RWMutex

	acquirer acquire.Acquirer
	auditor  worker.Auditor
	modeler  scoring.Modeler
	guard    dedupe.Guard
	store    repository.Store

	strategy         string
	searchType       string
	limit            int
	auditConcurrency int
	inflightSize     int
	historySize      int

	started bool

	generated        atomic.Int64
	failed           atomic.Int64
	degraded         atomic.Int64
	inflightRejected atomic.Int64
	lastGenerated    atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		searchType:       defaultSearchType,
		limit:            defaultLimit,
		auditConcurrency: defaultAuditConcurrency,
		inflightSize:     defaultInflightSize,
		historySize:      defaultHistorySize,
		logger:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.guard = dedupe.NewInMemoryGuard(dedupe.WithMaxSize(s.inflightSize))
	if s.store == nil {
		s.store = repository.NewTreapStore(repository.WithMaxReports(s.historySize))
	}
	return s
}

// Start validates the wiring and fills in default collaborators.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.acquirer == nil {
		return ErrNoAcquirer
	}
	if s.auditor == nil {
		s.auditor = audit.NewSiteAuditor(audit.WithLogger(s.logger))
	}
	if s.modeler == nil {
		s.modeler = scoring.NewDominanceModeler()
	}

	s.started = true
	s.logger.Info(ctx, "report service started",
		logger.String("strategy", s.strategy),
		logger.String("search_type", s.searchType),
		logger.Int("limit", s.limit),
		logger.Int("audit_concurrency", s.auditConcurrency),
	)
	return nil
}

// Stop marks the service as stopped. In-flight reports run to completion.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "report service stopped")
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Generate runs acquire, audit and model for one target and compiles the report.
// An empty acquisition ends the run with ErrAcquisitionFailed before any audit.
func (s *Service) Generate(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	start := time.Now()

	req = s.normalize(req)
	if req.TargetName == "" || req.Location == "" {
		return nil, fmt.Errorf("%w: target_name and location are required", ErrInvalidRequest)
	}

	key := dedupe.Key(req.TargetName, req.Location)
	if err := s.guard.Acquire(ctx, key); err != nil {
		s.inflightRejected.Add(1)
		metrics.RecordInflightRejected()
		if errors.Is(err, dedupe.ErrCapacity) {
			return nil, fmt.Errorf("%w: %w", ErrTooManyReports, err)
		}
		return nil, fmt.Errorf("%w: %s in %s", ErrReportInProgress, req.TargetName, req.Location)
	}
	defer s.guard.Release(ctx, key)

	log := s.logger.Named("report")
	log.Info(ctx, "generating report",
		logger.String("target", req.TargetName),
		logger.String("location", req.Location),
		logger.String("search_type", req.SearchType),
		logger.Int("limit", req.Limit))

	acq, err := s.acquirer.Acquire(ctx, acquire.Query{
		TargetName: req.TargetName,
		Location:   req.Location,
		TargetURL:  req.TargetURL,
		SearchType: req.SearchType,
		Limit:      req.Limit,
	})
	if err != nil {
		s.fail(ctx, "acquisition_failed", err)
		return nil, fmt.Errorf("%w: %w", ErrAcquisitionFailed, err)
	}
	if acq.Empty() {
		s.fail(ctx, "acquisition_failed", ErrAcquisitionFailed)
		return nil, ErrAcquisitionFailed
	}
	if acq.Degraded {
		s.degraded.Add(1)
	}

	entities := make([]model.Entity, len(acq.Entities))
	copy(entities, acq.Entities)

	if err := s.auditAll(ctx, entities); err != nil {
		s.fail(ctx, "audit_interrupted", err)
		return nil, err
	}
	log.Info(ctx, "audits complete", logger.Int("entities", len(entities)))

	modelStart := time.Now()
	res, err := s.modeler.Model(ctx, entities)
	metrics.RecordModelingLatency(float64(time.Since(modelStart).Milliseconds()))
	if err != nil {
		metrics.RecordModelingError()
		s.fail(ctx, "modeling_failed", err)
		return nil, fmt.Errorf("%w: %w", ErrModelingFailed, err)
	}
	log.Info(ctx, "modeling complete", logger.Float64("target_score", res.TargetScore))

	report := &model.Report{
		ID:                   uuid.NewString(),
		TargetName:           req.TargetName,
		Location:             req.Location,
		SearchType:           req.SearchType,
		Strategy:             s.strategy,
		Degraded:             acq.Degraded,
		EstimatedRevenueLoss: res.RevenueLoss,
		TargetScore:          res.TargetScore,
		CompetitorAverage:    res.CompetitorAverage,
		ScoreGap:             res.Gap,
		Entities:             entities,
		GeneratedAt:          time.Now().UTC(),
	}
	if idx := model.Target(entities); idx >= 0 {
		report.TargetHasSSL = entities[idx].Audit.HasSSL
	}

	// The report is returned even when the board refuses it.
	if err := s.store.Save(ctx, report); err != nil {
		log.Warn(ctx, "failed to store report", logger.String("id", report.ID), logger.Error(err))
	}

	s.generated.Add(1)
	s.lastGenerated.Store(report.GeneratedAt.Unix())
	metrics.RecordReportGenerated(res.RevenueLoss, float64(time.Since(start).Milliseconds()))
	log.Info(ctx, "report generated",
		logger.String("id", report.ID),
		logger.String("revenue_loss", report.FormattedRevenueLoss()),
		logger.Bool("degraded", report.Degraded),
		logger.Duration("took", time.Since(start)))
	return report, nil
}

// auditAll audits every entity through a per-report queue and worker pool.
// Results are written by index so acquisition order is preserved.
func (s *Service) auditAll(ctx context.Context, entities []model.Entity) error {
	q := queue.NewInMemoryQueue(queue.WithCapacity(len(entities)))
	for i := range entities {
		job := queue.Job{Index: i, EntityName: entities[i].Name, URL: entities[i].URL}
		if err := q.Enqueue(ctx, job); err != nil {
			_ = q.Close()
			return fmt.Errorf("enqueue audit: %w", err)
		}
	}
	_ = q.Close()

	// Each index is written by exactly one worker; Wait orders the writes before our reads.
	rec := worker.RecorderFunc(func(i int, a model.Audit) { entities[i].Audit = a })

	pool := worker.NewPool(min(s.auditConcurrency, len(entities)), q, s.auditor, rec,
		worker.WithLogger(s.logger))
	pool.Start(ctx)
	if err := pool.Wait(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

// TopReports returns the n stored reports with the largest estimated loss.
func (s *Service) TopReports(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.store.TopN(ctx, n)
}

// FindReport returns a stored report and its board rank.
func (s *Service) FindReport(ctx context.Context, id string) (repository.Entry, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) normalize(req model.ReportRequest) model.ReportRequest {
	req.TargetName = strings.TrimSpace(req.TargetName)
	req.Location = strings.TrimSpace(req.Location)
	req.TargetURL = strings.TrimSpace(req.TargetURL)
	req.SearchType = strings.TrimSpace(req.SearchType)
	if req.SearchType == "" {
		req.SearchType = s.searchType
	}
	if req.Limit == 0 {
		req.Limit = s.limit
	}
	return req
}

func (s *Service) fail(ctx context.Context, reason string, err error) {
	s.failed.Add(1)
	metrics.RecordReportFailure(reason)
	metrics.RecordErrorByComponent("service", reason)
	s.logger.Warn(ctx, "report failed", logger.String("reason", reason), logger.Error(err))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"strategy":         s.strategy,
		"searchType":       s.searchType,
		"limit":            s.limit,
		"auditConcurrency": s.auditConcurrency,
		"reportsGenerated": s.generated.Load(),
		"reportsFailed":    s.failed.Load(),
		"degradedReports":  s.degraded.Load(),
		"inflightReports":  s.guard.Size(),
		"inflightRejected": s.inflightRejected.Load(),
		"storedReports":    s.store.Count(context.Background()),
	}
	if ts := s.lastGenerated.Load(); ts > 0 {
		stats["lastReportAt"] = time.Unix(ts, 0).UTC().Format(time.RFC3339)
	}
	return stats
}
