package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hris-analytics-go/internal/handler/http/response"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsService struct {
	lastRequest   analytics.SearchRequest
	lastDrilldown analytics.DrilldownRequest
	lastDimension string
	err           error
}

func (f *fakeAnalyticsService) GenerateAttritionReport(_ context.Context, req analytics.SearchRequest) (analytics.AttritionReport, error) {
	f.lastRequest = req
	if f.err != nil {
		return analytics.AttritionReport{}, f.err
	}
	return analytics.AttritionReport{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Columns:   analytics.AttritionColumns,
		Rows: []analytics.PeriodMetricRow{{
			MonthYear:        "JAN-2024",
			SOM:              10,
			EOM:              8,
			AverageHeadcount: decimal.NewFromInt(9),
		}},
	}, nil
}

func (f *fakeAnalyticsService) GetSeparationDrilldown(_ context.Context, req analytics.DrilldownRequest) ([]analytics.SeparationDetail, error) {
	f.lastDrilldown = req
	if f.err != nil {
		return nil, f.err
	}
	return []analytics.SeparationDetail{
		{ID: "sep-1", MonthYear: "JAN-2024", EmployeeName: "Dana Reyes"},
		{ID: "sep-2", MonthYear: "JAN-2024", EmployeeName: "Sam Ortiz"},
	}, nil
}

func (f *fakeAnalyticsService) GenerateDiversityReport(_ context.Context, req analytics.SearchRequest) (analytics.DiversityReport, error) {
	f.lastRequest = req
	return analytics.DiversityReport{StartDate: req.StartDate, EndDate: req.EndDate}, f.err
}

func (f *fakeAnalyticsService) GenerateBreakdown(_ context.Context, dimension string, req analytics.SearchRequest) (analytics.Breakdown, error) {
	f.lastDimension = dimension
	f.lastRequest = req
	if f.err != nil {
		return analytics.Breakdown{}, f.err
	}
	return analytics.Breakdown{
		Dimension:  dimension,
		Categories: []string{"Female", "Male"},
		Rows: []analytics.BreakdownRow{{
			MonthYear:  "JAN-2024",
			Categories: []string{"Female", "Male"},
			Counts:     map[string]int{"Female": 3, "Male": 2},
		}},
	}, nil
}

func (f *fakeAnalyticsService) GetFilterOptions(_ context.Context) (analytics.FilterOptions, error) {
	return analytics.FilterOptions{Divisions: []string{"Security"}, States: []string{"TX"}}, f.err
}

type fakeExportService struct {
	lastRequest   analytics.SearchRequest
	lastDimension string
	err           error
}

func (f *fakeExportService) ExportAttrition(_ context.Context, req analytics.SearchRequest) (analytics.ExportFile, error) {
	f.lastRequest = req
	if f.err != nil {
		return analytics.ExportFile{}, f.err
	}
	return analytics.ExportFile{Filename: "attrition.csv", Content: []byte("Month-Year,SOM\nJAN-2024,10\n")}, nil
}

func (f *fakeExportService) ExportBreakdown(_ context.Context, dimension string, req analytics.SearchRequest) (analytics.ExportFile, error) {
	f.lastDimension = dimension
	f.lastRequest = req
	if f.err != nil {
		return analytics.ExportFile{}, f.err
	}
	return analytics.ExportFile{Filename: "gender.csv", Content: []byte("Month Year,Female\nJAN-2024,3\n")}, nil
}

func (f *fakeExportService) ArchiveAttrition(_ context.Context, req analytics.SearchRequest) (analytics.ArchiveResult, error) {
	f.lastRequest = req
	if f.err != nil {
		return analytics.ArchiveResult{}, f.err
	}
	return analytics.ArchiveResult{
		Filename: "attrition.csv",
		Path:     "exports/attrition/2024-01/attrition.csv",
		URL:      "http://localhost:8080/files/exports/attrition/2024-01/attrition.csv",
	}, nil
}

func newTestRouter(t *testing.T, filesPath string) (http.Handler, *fakeAnalyticsService, *fakeExportService) {
	t.Helper()
	svc := &fakeAnalyticsService{}
	exp := &fakeExportService{}
	router := NewRouter(RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		FilesPath:      filesPath,
	}, NewAnalyticsHandler(svc, exp))
	return router, svc, exp
}

func serve(router http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalyticsHandler_GetAttritionReport(t *testing.T) {
	router, svc, _ := newTestRouter(t, "")

	rec := serve(router, http.MethodGet,
		"/api/v1/analytics/attrition?start_date=2024-01-01&end_date=2024-03-31&divisions=Security,%20Janitorial&states=tx&title=Q1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analytics.SearchRequest{
		Title:     "Q1",
		StartDate: "2024-01-01",
		EndDate:   "2024-03-31",
		Divisions: []string{"Security", "Janitorial"},
		States:    []string{"tx"},
	}, svc.lastRequest)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	rows := data["rows"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "JAN-2024", row["monthYear"])
	assert.Equal(t, float64(10), row["som"])
}

func TestAnalyticsHandler_ErrorMapping(t *testing.T) {
	router, svc, _ := newTestRouter(t, "")
	svc.err = analytics.ErrInvalidDateFormat

	rec := serve(router, http.MethodGet, "/api/v1/analytics/attrition?start_date=01/02/2024&end_date=2024-03-31", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestAnalyticsHandler_GetSeparationDrilldown(t *testing.T) {
	router, svc, _ := newTestRouter(t, "")

	rec := serve(router, http.MethodGet,
		"/api/v1/analytics/attrition/separations?start_date=2024-01-01&end_date=2024-03-31&months=JAN-2024,FEB-2024&sort_by=employee_name&sort_dir=desc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"JAN-2024", "FEB-2024"}, svc.lastDrilldown.Months)
	assert.Equal(t, "employee_name", svc.lastDrilldown.SortBy)
	assert.Equal(t, "desc", svc.lastDrilldown.SortDir)
	assert.Equal(t, "2024-01-01", svc.lastDrilldown.StartDate)

	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, float64(2), body["meta"].(map[string]any)["total_items"])
}

func TestAnalyticsHandler_GetBreakdown(t *testing.T) {
	router, svc, _ := newTestRouter(t, "")

	rec := serve(router, http.MethodGet, "/api/v1/analytics/diversity/gender?start_date=2024-01-01&end_date=2024-01-31", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gender", svc.lastDimension)

	body := decodeBody(t, rec)
	rows := body["data"].(map[string]any)["rows"].([]any)
	assert.Equal(t, map[string]any{"monthYear": "JAN-2024", "Female": float64(3), "Male": float64(2)}, rows[0])
}

func TestAnalyticsHandler_GetBreakdown_UnknownDimension(t *testing.T) {
	router, svc, _ := newTestRouter(t, "")
	svc.err = analytics.ErrUnknownDimension

	rec := serve(router, http.MethodGet, "/api/v1/analytics/diversity/shoe_size?start_date=2024-01-01&end_date=2024-01-31", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsHandler_GetDiversityReport(t *testing.T) {
	router, svc, _ := newTestRouter(t, "")

	rec := serve(router, http.MethodGet, "/api/v1/analytics/diversity?start_date=2024-01-01&end_date=2024-02-29&clients=c-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"c-1"}, svc.lastRequest.Clients)
}

func TestAnalyticsHandler_GetFilterOptions(t *testing.T) {
	router, _, _ := newTestRouter(t, "")

	rec := serve(router, http.MethodGet, "/api/v1/analytics/filters", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, []any{"Security"}, data["divisions"])
}

func TestAnalyticsHandler_ExportAttritionReport(t *testing.T) {
	router, _, exp := newTestRouter(t, "")

	rec := serve(router, http.MethodGet, "/api/v1/analytics/attrition/export?start_date=2024-01-01&end_date=2024-01-31&positions=Guard", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attrition.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Month-Year,SOM\nJAN-2024,10\n", rec.Body.String())
	assert.Equal(t, []string{"Guard"}, exp.lastRequest.Positions)
}

func TestAnalyticsHandler_ExportBreakdown_NoData(t *testing.T) {
	router, _, exp := newTestRouter(t, "")
	exp.err = analytics.ErrNoDataFound

	rec := serve(router, http.MethodGet, "/api/v1/analytics/diversity/gender/export?start_date=2024-01-01&end_date=2024-01-31", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No data found", body.Error.Message)
	assert.Equal(t, "gender", exp.lastDimension)
}

func TestAnalyticsHandler_ArchiveAttritionReport(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		router, _, exp := newTestRouter(t, "")

		rec := serve(router, http.MethodPost, "/api/v1/analytics/attrition/archive",
			`{"title":"January","start_date":"2024-01-01","end_date":"2024-01-31","divisions":["Security"]}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "January", exp.lastRequest.Title)
		assert.Equal(t, []string{"Security"}, exp.lastRequest.Divisions)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "exports/attrition/2024-01/attrition.csv", data["path"])
	})

	t.Run("empty body uses query", func(t *testing.T) {
		router, _, exp := newTestRouter(t, "")

		rec := serve(router, http.MethodPost, "/api/v1/analytics/attrition/archive?start_date=2024-01-01&end_date=2024-01-31", "")

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "2024-01-01", exp.lastRequest.StartDate)
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "")

		rec := serve(router, http.MethodPost, "/api/v1/analytics/attrition/archive", `{"start_date":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_ServesArchivedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "exports"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exports", "jan.csv"), []byte("Month-Year\nJAN-2024\n"), 0o644))
	router, _, _ := newTestRouter(t, dir)

	rec := serve(router, http.MethodGet, "/files/exports/jan.csv", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Month-Year\nJAN-2024\n", rec.Body.String())
}

func TestRouter_Heartbeat(t *testing.T) {
	router, _, _ := newTestRouter(t, "")

	rec := serve(router, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
