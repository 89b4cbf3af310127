package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/crgg/internal/adapters/repository"
)

const (
	defaultBoardLimit = 10
	maxBoardLimit     = 100
)

// BoardDependencies defines the interface for prospect board reads.
type BoardDependencies interface {
	TopReports(ctx context.Context, n int) ([]repository.Entry, error)
	FindReport(ctx context.Context, id string) (repository.Entry, error)
}

// prospect is one row of GET /prospects.
type prospect struct {
	Rank                 int       `json:"rank"`
	ID                   string    `json:"id"`
	TargetName           string    `json:"target_name"`
	Location             string    `json:"location"`
	EstimatedRevenueLoss float64   `json:"estimated_revenue_loss"`
	FormattedRevenueLoss string    `json:"formatted_revenue_loss"`
	TargetHasSSL         bool      `json:"target_has_ssl"`
	Degraded             bool      `json:"degraded"`
	GeneratedAt          time.Time `json:"generated_at"`
}

type rankedReportResponse struct {
	Rank int `json:"rank"`
	reportResponse
}

// BoardHandler serves the prospect board.
type BoardHandler struct {
	deps     BoardDependencies
	maxLimit int
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies, maxLimit int) *BoardHandler {
	return &BoardHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetProspects handles GET /prospects?limit=N requests.
func (h *BoardHandler) HandleGetProspects(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_prospects"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := defaultBoardLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.TopReports(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}

	out := make([]prospect, 0, len(entries))
	for _, e := range entries {
		out = append(out, prospect{
			Rank:                 e.Rank,
			ID:                   e.Report.ID,
			TargetName:           e.Report.TargetName,
			Location:             e.Report.Location,
			EstimatedRevenueLoss: e.Report.EstimatedRevenueLoss,
			FormattedRevenueLoss: e.Report.FormattedRevenueLoss(),
			TargetHasSSL:         e.Report.TargetHasSSL,
			Degraded:             e.Report.Degraded,
			GeneratedAt:          e.Report.GeneratedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetReport handles GET /reports/{id} requests.
func (h *BoardHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/reports/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	entry, err := h.deps.FindReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, rankedReportResponse{
		Rank: entry.Rank,
		reportResponse: reportResponse{
			Report:               entry.Report,
			FormattedRevenueLoss: entry.Report.FormattedRevenueLoss(),
		},
	})
}
