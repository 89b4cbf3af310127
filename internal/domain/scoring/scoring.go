// Package scoring computes dominance scores and converts the score gap
// between a target and its competitors into an estimated revenue loss.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/crgg/internal/domain/model"
)

// Default model parameters.
const (
	defaultRatingWeight    = 10
	defaultReviewDivisor   = 50
	defaultRevenuePerPoint = 500
)

// Result contains the modeling outcome of one entity list.
type Result struct {
	TargetScore       float64
	CompetitorAverage float64
	Gap               float64
	RevenueLoss       float64
}

// Modeler scores entities in place and summarizes the target's position.
type Modeler interface {
	// Model sets DominanceScore on every entity, honoring ctx for cancellation.
	Model(ctx context.Context, entities []model.Entity) (Result, error)
}

// DominanceModeler implements Modeler with a linear rating/review score.
type DominanceModeler struct {
	ratingWeight    float64
	reviewDivisor   float64
	revenuePerPoint float64
}

// NewDominanceModeler creates a modeler with configuration options.
func NewDominanceModeler(opts ...Option) *DominanceModeler {
	m := &DominanceModeler{
		ratingWeight:    defaultRatingWeight,
		reviewDivisor:   defaultReviewDivisor,
		revenuePerPoint: defaultRevenuePerPoint,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score returns the dominance score of a single entity.
func (m *DominanceModeler) Score(e model.Entity) float64 {
	return e.Rating*m.ratingWeight + float64(e.ReviewCount)/m.reviewDivisor
}

// Model scores every entity and converts the target's gap to revenue loss.
// The list must hold exactly one target and at least one competitor.
func (m *DominanceModeler) Model(ctx context.Context, entities []model.Entity) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}

	target := -1
	for i := range entities {
		if !entities[i].IsTarget {
			continue
		}
		if target >= 0 {
			return Result{}, violation(len(entities), ErrMultipleTargets)
		}
		target = i
	}
	if target < 0 {
		return Result{}, violation(len(entities), ErrTargetNotFound)
	}
	if len(entities) < 2 {
		return Result{}, violation(len(entities), ErrNoCompetitors)
	}

	var sum float64
	for i := range entities {
		entities[i].DominanceScore = m.Score(entities[i])
		if i != target {
			sum += entities[i].DominanceScore
		}
	}

	res := Result{TargetScore: entities[target].DominanceScore}
	res.CompetitorAverage = sum / float64(len(entities)-1)
	res.Gap = res.CompetitorAverage - res.TargetScore
	res.RevenueLoss = math.Max(0, res.Gap*m.revenuePerPoint)
	return res, nil
}
