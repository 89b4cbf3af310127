// Package acquire produces the ordered competitor list of a report run,
// with the target business appended as the last entity.
package acquire

import (
	"context"
	"strings"

	"github.com/okian/crgg/internal/domain/model"
)

const (
	defaultSearchType        = "dentist"
	defaultTargetRating      = 3.8
	defaultTargetReviewCount = 45
)

// Acquirer discovers competitors for a target business.
type Acquirer interface {
	// Acquire returns competitors followed by the target. An empty result
	// with a nil error means no data was available.
	Acquire(ctx context.Context, q Query) (Result, error)
}

// Query describes what to acquire.
type Query struct {
	TargetName string
	Location   string
	TargetURL  string
	SearchType string
	Limit      int
}

// Result is the acquired entity list.
type Result struct {
	Entities []model.Entity
	// Degraded is set when the fixed fallback set replaced live data.
	Degraded bool
}

// Empty reports whether no entity was acquired.
func (r Result) Empty() bool { return len(r.Entities) == 0 }

func (q Query) validate() error {
	if strings.TrimSpace(q.TargetName) == "" {
		return ErrInvalidQuery
	}
	return nil
}

func (q Query) searchType() string {
	if st := strings.TrimSpace(q.SearchType); st != "" {
		return st
	}
	return defaultSearchType
}

// fixedListings is both the directory stub data and the scraping fallback set.
func fixedListings() []model.Entity {
	return []model.Entity{
		{Name: "Competitor A Dental", Rating: 4.9, ReviewCount: 320, URL: "http://comp-a.com"},
		{Name: "Competitor B Ortho", Rating: 4.7, ReviewCount: 150, URL: "http://comp-b.com"},
	}
}

// targetProfile holds the synthetic metrics assigned to the target business.
type targetProfile struct {
	rating      float64
	reviewCount int
}

func (p targetProfile) entity(q Query) model.Entity {
	return model.Entity{
		Name:        q.TargetName,
		Rating:      p.rating,
		ReviewCount: p.reviewCount,
		URL:         q.TargetURL,
		IsTarget:    true,
	}
}
