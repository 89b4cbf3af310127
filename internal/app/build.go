package service

import (
	"fmt"

	"github.com/okian/crgg/internal/adapters/acquire"
	"github.com/okian/crgg/internal/adapters/audit"
	"github.com/okian/crgg/internal/config"
	"github.com/okian/crgg/internal/domain/scoring"
	"github.com/okian/crgg/pkg/logger"
)

// NewFromConfig wires the pipeline collaborators described by cfg.
// The returned service still has to be started.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}

	targetProfile := acquire.WithTargetProfile(cfg.TargetRating, cfg.TargetReviewCount)

	var acq acquire.Acquirer
	switch cfg.Strategy {
	case config.StrategyDirectory:
		acq = acquire.NewDirectoryAcquirer(cfg.PlacesAPIKey,
			targetProfile,
			acquire.WithLogger(log.Named("directory")))
	case config.StrategySearch:
		engine, err := acquire.NewHTMLSearchEngine(cfg.SearchURL,
			acquire.WithResultSelector(cfg.SearchResultSelector),
			acquire.WithPageSize(cfg.SearchPageSize),
			acquire.WithRequestTimeout(cfg.SearchTimeout()),
			acquire.WithEngineUserAgent(cfg.UserAgent),
			acquire.WithLimiter(acquire.NewLimiter(cfg.SearchDelay())),
			acquire.WithEngineLogger(log.Named("search_engine")))
		if err != nil {
			return nil, fmt.Errorf("build search engine: %w", err)
		}
		acq = acquire.NewSearchAcquirer(engine,
			targetProfile,
			acquire.WithLogger(log.Named("search")))
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}

	auditor := audit.NewSiteAuditor(
		audit.WithTimeout(cfg.AuditTimeout()),
		audit.WithMaxRedirects(cfg.AuditMaxRedirects),
		audit.WithCTAKeyword(cfg.CTAKeyword),
		audit.WithUserAgent(cfg.UserAgent),
		audit.WithLogger(log.Named("auditor")))

	modeler := scoring.NewDominanceModeler(
		scoring.WithRatingWeight(cfg.RatingWeight),
		scoring.WithReviewDivisor(cfg.ReviewDivisor),
		scoring.WithRevenuePerPoint(cfg.RevenuePerPoint))

	return New(
		WithLogger(log),
		WithAcquirer(acq, cfg.Strategy),
		WithAuditor(auditor),
		WithModeler(modeler),
		WithDefaultSearchType(cfg.SearchType),
		WithDefaultLimit(cfg.CompetitorLimit),
		WithAuditConcurrency(cfg.AuditConcurrency),
		WithInflightSize(cfg.InflightSize),
		WithReportHistorySize(cfg.ReportHistorySize),
	), nil
}
