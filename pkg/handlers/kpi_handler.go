package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/auth"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/services"
)

// KPIHandler serves the KPI tracking view: filtered record listings with
// their aggregates.
type KPIHandler struct {
	svc    services.KPIService
	logger *zap.Logger
}

func NewKPIHandler(svc services.KPIService, logger *zap.Logger) *KPIHandler {
	return &KPIHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the KPI routes on the given mux.
func (h *KPIHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/kpis", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/kpis/summary", authMiddleware.RequireAuth(h.Summary))
}

// List handles GET /api/kpis. Filters arrive as query parameters; the
// response carries the filtered records and the summary computed from the
// same set.
func (h *KPIHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(r.URL.Query())
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_filter", "Malformed filter parameter")
		return
	}

	result, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode KPI list response", zap.Error(err))
	}
}

// Summary handles GET /api/kpis/summary: the aggregate view without the
// detail rows. It goes through the same snapshot-and-filter path as List, so
// the numbers always match a listing with the same parameters.
func (h *KPIHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(r.URL.Query())
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_filter", "Malformed filter parameter")
		return
	}

	result, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result.Summary); err != nil {
		h.logger.Error("Failed to encode KPI summary response", zap.Error(err))
	}
}

func (h *KPIHandler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperrors.ErrSourceUnavailable) {
		h.logger.Warn("KPI source unavailable", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "source_unavailable", "The record store could not be reached")
		return
	}
	h.logger.Error("KPI listing failed", zap.Error(err))
	_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to compute KPI listing")
}

// parseFilter builds a services.Filter from query parameters. Returns
// ok=false when a date or numeric parameter is malformed.
func parseFilter(query url.Values) (*services.Filter, bool) {
	filter := &services.Filter{
		Projects:   listParam(query, "project"),
		Activities: listParam(query, "activity"),
		Zones:      listParam(query, "zone"),
		Sections:   listParam(query, "section"),
		Units:      listParam(query, "unit"),
		Divisions:  listParam(query, "division"),
		Scopes:     listParam(query, "scope"),
		Timings:    listParam(query, "timing"),
	}

	for _, t := range listParam(query, "type") {
		switch t {
		case string(models.InputTypePlanned):
			filter.InputTypes = append(filter.InputTypes, models.InputTypePlanned)
		case string(models.InputTypeActual):
			filter.InputTypes = append(filter.InputTypes, models.InputTypeActual)
		default:
			return nil, false
		}
	}

	var ok bool
	if filter.DateFrom, ok = dateParam(query, "date_from"); !ok {
		return nil, false
	}
	if filter.DateTo, ok = dateParam(query, "date_to"); !ok {
		return nil, false
	}
	if filter.MinValue, ok = floatParam(query, "min_value"); !ok {
		return nil, false
	}
	if filter.MaxValue, ok = floatParam(query, "max_value"); !ok {
		return nil, false
	}
	if filter.MinQuantity, ok = floatParam(query, "min_quantity"); !ok {
		return nil, false
	}
	if filter.MaxQuantity, ok = floatParam(query, "max_quantity"); !ok {
		return nil, false
	}

	return filter, true
}
