package service

import (
	"strings"

	"github.com/okian/crgg/internal/adapters/acquire"
	"github.com/okian/crgg/internal/adapters/mq/worker"
	"github.com/okian/crgg/internal/adapters/repository"
	"github.com/okian/crgg/internal/domain/scoring"
	"github.com/okian/crgg/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAcquirer sets the competitor acquirer and the strategy name reported with it.
func WithAcquirer(a acquire.Acquirer, strategy string) Option {
	return func(s *Service) {
		if a != nil {
			s.acquirer = a
			s.strategy = strategy
		}
	}
}

// WithAuditor sets the website auditor.
func WithAuditor(a worker.Auditor) Option {
	return func(s *Service) {
		if a != nil {
			s.auditor = a
		}
	}
}

// WithModeler sets the dominance modeler.
func WithModeler(m scoring.Modeler) Option {
	return func(s *Service) {
		if m != nil {
			s.modeler = m
		}
	}
}

// WithDefaultSearchType sets the search type used when a request omits it.
func WithDefaultSearchType(st string) Option {
	return func(s *Service) {
		if st = strings.TrimSpace(st); st != "" {
			s.searchType = st
		}
	}
}

// WithDefaultLimit sets the competitor limit used when a request omits it.
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithAuditConcurrency sets the number of audit workers per report.
func WithAuditConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.auditConcurrency = n
		}
	}
}

// WithInflightSize bounds the number of concurrent report runs.
func WithInflightSize(n int) Option {
	return func(s *Service) { s.inflightSize = n }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReportStore sets the prospect board that generated reports are saved to.
func WithReportStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithReportHistorySize bounds the default prospect board.
func WithReportHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}
