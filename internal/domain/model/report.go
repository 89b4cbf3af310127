package model

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ReportRequest is the input of a report run.
// Zero SearchType and Limit are filled from configuration.
type ReportRequest struct {
	TargetName string `json:"target_name"`
	Location   string `json:"location"`
	TargetURL  string `json:"target_url,omitempty"`
	SearchType string `json:"search_type,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Report is the compiled result of one run.
type Report struct {
	ID                   string    `json:"id"`
	TargetName           string    `json:"target_name"`
	Location             string    `json:"location"`
	SearchType           string    `json:"search_type"`
	Strategy             string    `json:"strategy"`
	Degraded             bool      `json:"degraded"`
	EstimatedRevenueLoss float64   `json:"estimated_revenue_loss"`
	TargetScore          float64   `json:"target_score"`
	CompetitorAverage    float64   `json:"competitor_average"`
	ScoreGap             float64   `json:"score_gap"`
	TargetHasSSL         bool      `json:"target_has_ssl"`
	Entities             []Entity  `json:"entities"`
	GeneratedAt          time.Time `json:"generated_at"`
}

var currencyPrinter = message.NewPrinter(language.English)

// FormattedRevenueLoss renders the loss as US currency, e.g. "$6,900.00".
func (r *Report) FormattedRevenueLoss() string {
	return FormatCurrency(r.EstimatedRevenueLoss)
}

// FormatCurrency renders v with thousands grouping and two decimals.
func FormatCurrency(v float64) string {
	return currencyPrinter.Sprintf("$%.2f", v)
}

// Competitors returns the non-target entities in acquisition order.
func (r *Report) Competitors() []Entity {
	out := make([]Entity, 0, len(r.Entities))
	for _, e := range r.Entities {
		if !e.IsTarget {
			out = append(out, e)
		}
	}
	return out
}
