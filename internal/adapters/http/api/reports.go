package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/crgg/internal/app"
	"github.com/okian/crgg/internal/domain/model"
)

const (
	maxRequestBodyBytes = 1 << 20
	maxCompetitorLimit  = 50
)

// reportRequest mirrors the OpenAPI schema for POST /reports.
type reportRequest struct {
	TargetName string `json:"target_name"`
	Location   string `json:"location"`
	TargetURL  string `json:"target_url"`
	SearchType string `json:"search_type"`
	Limit      int    `json:"limit"`
}

func (r reportRequest) validate() error {
	switch {
	case strings.TrimSpace(r.TargetName) == "":
		return errors.New("missing target_name")
	case strings.TrimSpace(r.Location) == "":
		return errors.New("missing location")
	case r.Limit < 0 || r.Limit > maxCompetitorLimit:
		return fmt.Errorf("limit must be between 0 and %d", maxCompetitorLimit)
	}
	return nil
}

// ReportsHandler handles report requests.
type ReportsHandler struct {
	deps Dependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps Dependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandlePostReport handles POST /reports requests.
func (h *ReportsHandler) HandlePostReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_report"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req reportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	report, err := h.deps.Generate(r.Context(), model.ReportRequest{
		TargetName: req.TargetName,
		Location:   req.Location,
		TargetURL:  req.TargetURL,
		SearchType: req.SearchType,
		Limit:      req.Limit,
	})
	if err != nil {
		status, code, kind := classify(err)
		writeError(w, status, code, WrapKind(op, kind, err))
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Report: report, FormattedRevenueLoss: report.FormattedRevenueLoss()})
}

type reportResponse struct {
	*model.Report
	FormattedRevenueLoss string `json:"formatted_revenue_loss"`
}

// classify maps pipeline errors to HTTP status, error code and kind.
func classify(err error) (int, string, error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "bad_request", ErrBadRequest
	case errors.Is(err, service.ErrReportInProgress):
		return http.StatusConflict, "in_progress", ErrInProgress
	case errors.Is(err, service.ErrTooManyReports):
		return http.StatusServiceUnavailable, "busy", ErrBusy
	case errors.Is(err, service.ErrAcquisitionFailed):
		return http.StatusBadGateway, "acquisition_failed", ErrUpstream
	case errors.Is(err, service.ErrModelingFailed):
		return http.StatusInternalServerError, "modeling_failed", ErrInternal
	default:
		return http.StatusInternalServerError, "internal_error", ErrInternal
	}
}
