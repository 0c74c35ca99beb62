package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hris-analytics-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AnalyticsHandler interface {
	// Attrition
	GetAttritionReport(w http.ResponseWriter, r *http.Request)
	GetSeparationDrilldown(w http.ResponseWriter, r *http.Request)
	ExportAttritionReport(w http.ResponseWriter, r *http.Request)
	ArchiveAttritionReport(w http.ResponseWriter, r *http.Request)

	// Diversity
	GetDiversityReport(w http.ResponseWriter, r *http.Request)
	GetBreakdown(w http.ResponseWriter, r *http.Request)
	ExportBreakdown(w http.ResponseWriter, r *http.Request)

	// Search inputs
	GetFilterOptions(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
	exportService    analytics.ExportService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService, exportService analytics.ExportService) AnalyticsHandler {
	return &analyticsHandlerImpl{
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetAttritionReport handles GET /analytics/attrition
func (h *analyticsHandlerImpl) GetAttritionReport(w http.ResponseWriter, r *http.Request) {
	req := searchRequestFromQuery(r.URL.Query())

	result, err := h.analyticsService.GenerateAttritionReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSeparationDrilldown handles GET /analytics/attrition/separations
func (h *analyticsHandlerImpl) GetSeparationDrilldown(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := analytics.DrilldownRequest{
		SearchRequest: searchRequestFromQuery(query),
		Months:        validator.SplitList(query.Get("months")),
		SortBy:        query.Get("sort_by"),
		SortDir:       query.Get("sort_dir"),
	}

	result, err := h.analyticsService.GetSeparationDrilldown(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

// ExportAttritionReport handles GET /analytics/attrition/export
func (h *analyticsHandlerImpl) ExportAttritionReport(w http.ResponseWriter, r *http.Request) {
	req := searchRequestFromQuery(r.URL.Query())

	file, err := h.exportService.ExportAttrition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.CSV(w, file.Filename, file.Content)
}

// ArchiveAttritionReport handles POST /analytics/attrition/archive
func (h *analyticsHandlerImpl) ArchiveAttritionReport(w http.ResponseWriter, r *http.Request) {
	var req analytics.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			response.BadRequest(w, "invalid request body", nil)
			return
		}
		// Empty body: fall back to query parameters
		req = searchRequestFromQuery(r.URL.Query())
	}

	result, err := h.exportService.ArchiveAttrition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attrition report archived", result)
}

// GetDiversityReport handles GET /analytics/diversity
func (h *analyticsHandlerImpl) GetDiversityReport(w http.ResponseWriter, r *http.Request) {
	req := searchRequestFromQuery(r.URL.Query())

	result, err := h.analyticsService.GenerateDiversityReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetBreakdown handles GET /analytics/diversity/{dimension}
func (h *analyticsHandlerImpl) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")
	req := searchRequestFromQuery(r.URL.Query())

	result, err := h.analyticsService.GenerateBreakdown(r.Context(), dimension, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportBreakdown handles GET /analytics/diversity/{dimension}/export
func (h *analyticsHandlerImpl) ExportBreakdown(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")
	req := searchRequestFromQuery(r.URL.Query())

	file, err := h.exportService.ExportBreakdown(r.Context(), dimension, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.CSV(w, file.Filename, file.Content)
}

// GetFilterOptions handles GET /analytics/filters
func (h *analyticsHandlerImpl) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetFilterOptions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func searchRequestFromQuery(query url.Values) analytics.SearchRequest {
	return analytics.SearchRequest{
		Title:     query.Get("title"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Divisions: validator.SplitList(query.Get("divisions")),
		Locations: validator.SplitList(query.Get("locations")),
		Clients:   validator.SplitList(query.Get("clients")),
		Positions: validator.SplitList(query.Get("positions")),
		States:    validator.SplitList(query.Get("states")),
	}
}
