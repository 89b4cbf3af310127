package acquire

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/okian/crgg/internal/domain/model"
	"github.com/okian/crgg/pkg/logger"
	"github.com/okian/crgg/pkg/metrics"
)

const (
	strategySearch = "search"

	topRating     = 4.9
	ratingStep    = 0.1
	ratingFloor   = 4.2
	topReviews    = 320
	reviewStep    = 30
	reviewFloor   = 100
	unknownHostID = "unknown"
)

// SearchAcquirer discovers competitors by scraping search results and
// assigning rank-derived synthetic metrics.
type SearchAcquirer struct {
	engine SearchEngine
	target targetProfile
	log    logger.Logger
}

// NewSearchAcquirer creates a SearchAcquirer over engine.
func NewSearchAcquirer(engine SearchEngine, opts ...Option) *SearchAcquirer {
	s := newSettings(opts)
	return &SearchAcquirer{engine: engine, target: s.target, log: s.log}
}

// Acquire searches for competitors and appends the target. Recoverable search
// failures are absorbed by the fixed fallback set and flagged as degraded.
func (a *SearchAcquirer) Acquire(ctx context.Context, q Query) (Result, error) {
	if err := q.validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	if q.Limit <= 0 {
		metrics.RecordAcquisition(strategySearch, "fallback", float64(time.Since(start).Milliseconds()))
		return Result{Entities: append(fixedListings(), a.target.entity(q))}, nil
	}

	query := SearchQuery(q.searchType(), q.Location)
	a.log.Info(ctx, "searching for competitors", logger.String("query", query), logger.Int("limit", q.Limit))

	urls, err := a.engine.Search(ctx, query, q.Limit)
	if err != nil {
		if !recoverable(ctx, err) {
			metrics.RecordAcquisition(strategySearch, "error", float64(time.Since(start).Milliseconds()))
			return Result{}, fmt.Errorf("search acquisition: %w", err)
		}
		a.log.Warn(ctx, "search failed, using fallback competitors", logger.Error(err))
		metrics.RecordAcquisitionDegraded()
		metrics.RecordAcquisition(strategySearch, "degraded", float64(time.Since(start).Milliseconds()))
		return Result{Entities: append(fixedListings(), a.target.entity(q)), Degraded: true}, nil
	}

	entities := make([]model.Entity, 0, len(urls)+1)
	for rank, u := range urls {
		entities = append(entities, model.Entity{
			Name:        fmt.Sprintf("Competitor %d (%s)", rank+1, hostOf(u)),
			Rating:      RankRating(rank),
			ReviewCount: RankReviews(rank),
			URL:         u,
		})
	}
	entities = append(entities, a.target.entity(q))

	metrics.RecordAcquisition(strategySearch, "ok", float64(time.Since(start).Milliseconds()))
	return Result{Entities: entities}, nil
}

// SearchQuery builds the free-text competitor query.
func SearchQuery(searchType, location string) string {
	return fmt.Sprintf("best %s near %s reviews", searchType, location)
}

// RankRating returns the synthetic rating of a 0-based rank.
func RankRating(rank int) float64 {
	r := topRating - ratingStep*float64(rank)
	// Round to one decimal to keep 4.9, 4.8, ... exact for display.
	return math.Max(ratingFloor, math.Round(r*10)/10)
}

// RankReviews returns the synthetic review count of a 0-based rank.
func RankReviews(rank int) int {
	return max(reviewFloor, topReviews-reviewStep*rank)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return unknownHostID
	}
	return u.Hostname()
}
