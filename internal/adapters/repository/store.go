// Package repository keeps generated reports on a prospect board ranked by
// estimated revenue loss.
package repository

import (
	"context"

	"github.com/okian/crgg/internal/domain/model"
)

// Entry is one prospect board row. Report is shared with the store and must
// be treated as read-only.
type Entry struct {
	Rank   int
	Report *model.Report
}

// Store provides read/write access to the prospect board.
type Store interface {
	// Save records r as the latest report for its target and location,
	// replacing any earlier report for the same pair.
	Save(ctx context.Context, r *model.Report) error

	// Get returns the board entry holding the report with id.
	// Returns ErrNotFound if the report is unknown or was replaced.
	Get(ctx context.Context, id string) (Entry, error)

	// TopN returns the top-N entries ordered by revenue loss desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of targets on the board.
	Count(ctx context.Context) int
}
