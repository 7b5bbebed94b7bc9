package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/auth"
	"github.com/fieldline-io/kpi-engine/pkg/config"
	"github.com/fieldline-io/kpi-engine/pkg/services"
)

// MissingReportHandler serves gap detection and suppression endpoints.
type MissingReportHandler struct {
	svc    services.MissingReportService
	cfg    *config.Config
	logger *zap.Logger
}

func NewMissingReportHandler(svc services.MissingReportService, cfg *config.Config, logger *zap.Logger) *MissingReportHandler {
	return &MissingReportHandler{svc: svc, cfg: cfg, logger: logger}
}

// RegisterRoutes registers the missing-report routes on the given mux.
func (h *MissingReportHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/missing-reports", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/missing-reports/ignored", authMiddleware.RequireAuth(h.Ignore))
}

// List handles GET /api/missing-reports?from=YYYY-MM-DD&to=YYYY-MM-DD.
// `from` defaults to the configured reporting-policy start, `to` to today.
func (h *MissingReportHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, ok := dateParam(query, "from")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD")
		return
	}
	to, ok := dateParam(query, "to")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD")
		return
	}

	fromDate := h.cfg.Reporting.WindowStartDate()
	if from != nil {
		fromDate = *from
	}
	toDate := time.Now().UTC()
	if to != nil {
		toDate = *to
	}
	if fromDate.IsZero() {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_window", "No reporting window configured; pass from=YYYY-MM-DD")
		return
	}

	missing, err := h.svc.ListMissing(r.Context(), fromDate, toDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrSourceUnavailable) {
			h.logger.Warn("Missing-report source unavailable", zap.Error(err))
			_ = ErrorResponse(w, http.StatusBadGateway, "source_unavailable", "The record store could not be reached")
			return
		}
		h.logger.Error("Gap detection failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to detect missing reports")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"from":    fromDate.Format("2006-01-02"),
		"to":      toDate.Format("2006-01-02"),
		"missing": missing,
	}); err != nil {
		h.logger.Error("Failed to encode missing-report response", zap.Error(err))
	}
}

// IgnoreRequest is the body of POST /api/missing-reports/ignored.
type IgnoreRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
	Date      string    `json:"date"`
	DayLabel  string    `json:"day_label,omitempty"`
}

// Ignore handles POST /api/missing-reports/ignored. Inserting an entry that
// already exists is reported as already-suppressed, not as an error.
func (h *MissingReportHandler) Ignore(w http.ResponseWriter, r *http.Request) {
	var req IgnoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	created, err := h.svc.IgnoreReport(r.Context(), req.ProjectID, req.Date, req.DayLabel)
	if err != nil {
		h.logger.Error("Failed to ignore missing report",
			zap.String("project_id", req.ProjectID.String()),
			zap.String("date", req.Date),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadRequest, "ignore_failed", err.Error())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if err := WriteJSON(w, status, map[string]bool{"created": created}); err != nil {
		h.logger.Error("Failed to encode ignore response", zap.Error(err))
	}
}
