package acquire

import (
	"context"
	"time"

	"github.com/okian/crgg/pkg/logger"
	"github.com/okian/crgg/pkg/metrics"
)

const strategyDirectory = "directory"

// DirectoryAcquirer reads competitors from a business directory. The
// directory is a stub: with a credential it returns fixed listings.
type DirectoryAcquirer struct {
	apiKey string
	target targetProfile
	log    logger.Logger
}

// NewDirectoryAcquirer creates a DirectoryAcquirer. An empty apiKey makes every
// acquisition return no data.
func NewDirectoryAcquirer(apiKey string, opts ...Option) *DirectoryAcquirer {
	s := newSettings(opts)
	return &DirectoryAcquirer{apiKey: apiKey, target: s.target, log: s.log}
}

// Acquire returns the fixed listings, truncated to q.Limit when positive, then the target.
func (d *DirectoryAcquirer) Acquire(ctx context.Context, q Query) (Result, error) {
	if err := q.validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	if d.apiKey == "" {
		d.log.Warn(ctx, "directory credential missing, no data acquired")
		metrics.RecordAcquisition(strategyDirectory, "empty", float64(time.Since(start).Milliseconds()))
		return Result{}, nil
	}

	d.log.Info(ctx, "searching directory for competitors",
		logger.String("search_type", q.searchType()),
		logger.String("location", q.Location))

	listings := fixedListings()
	if q.Limit > 0 && q.Limit < len(listings) {
		listings = listings[:q.Limit]
	}
	entities := append(listings, d.target.entity(q))

	metrics.RecordAcquisition(strategyDirectory, "ok", float64(time.Since(start).Milliseconds()))
	return Result{Entities: entities}, nil
}
