package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldline-io/kpi-engine/pkg/apperrors"
	"github.com/fieldline-io/kpi-engine/pkg/auth"
	"github.com/fieldline-io/kpi-engine/pkg/models"
	"github.com/fieldline-io/kpi-engine/pkg/services"
)

// allowAllValidator accepts every bearer token; handler tests care about
// routing and encoding, not signature verification.
type allowAllValidator struct{}

func (allowAllValidator) ValidateToken(string) (*auth.Claims, error) {
	return &auth.Claims{Email: "test@example.com"}, nil
}

func testAuthMiddleware() *auth.Middleware {
	return auth.NewMiddleware(allowAllValidator{}, zap.NewNop())
}

type stubKPIService struct {
	lastFilter *services.Filter
	result     *services.KPIListResult
	err        error
}

func (s *stubKPIService) List(ctx context.Context, filter *services.Filter) (*services.KPIListResult, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newKPIMux(svc services.KPIService) *http.ServeMux {
	mux := http.NewServeMux()
	NewKPIHandler(svc, zap.NewNop()).RegisterRoutes(mux, testAuthMiddleware())
	return mux
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestKPIHandler_List(t *testing.T) {
	svc := &stubKPIService{result: &services.KPIListResult{
		Records: []services.ValuedRecord{
			{Record: &models.ProgressRecord{ActivityName: "Excavation"}, Value: 100, Matchable: true},
		},
		Summary: services.Summary{
			Actual: services.PartitionSummary{Count: 1, Value: 100},
		},
	}}
	mux := newKPIMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/kpis"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body services.KPIListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Records, 1)
	assert.Equal(t, 100.0, body.Records[0].Value)
	assert.Equal(t, 1, body.Summary.Actual.Count)
}

func TestKPIHandler_List_ParsesFilterParams(t *testing.T) {
	svc := &stubKPIService{result: &services.KPIListResult{}}
	mux := newKPIMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet,
		"/api/kpis?project=P100-01&zone=Zone+1,Zone+2&type=Actual&date_from=2025-01-01&min_value=50"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFilter)
	assert.Equal(t, []string{"P100-01"}, svc.lastFilter.Projects)
	assert.Equal(t, []string{"Zone 1", "Zone 2"}, svc.lastFilter.Zones)
	assert.Equal(t, []models.InputType{models.InputTypeActual}, svc.lastFilter.InputTypes)
	require.NotNil(t, svc.lastFilter.DateFrom)
	assert.Equal(t, "2025-01-01", svc.lastFilter.DateFrom.Format("2006-01-02"))
	require.NotNil(t, svc.lastFilter.MinValue)
	assert.Equal(t, 50.0, *svc.lastFilter.MinValue)
}

func TestKPIHandler_List_RejectsMalformedParams(t *testing.T) {
	mux := newKPIMux(&stubKPIService{result: &services.KPIListResult{}})

	for _, target := range []string{
		"/api/kpis?date_from=January",
		"/api/kpis?min_value=lots",
		"/api/kpis?type=Forecast",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authedRequest(http.MethodGet, target))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestKPIHandler_List_SourceUnavailable(t *testing.T) {
	mux := newKPIMux(&stubKPIService{err: apperrors.ErrSourceUnavailable})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/kpis"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "source_unavailable", body["error"])
}

func TestKPIHandler_Summary(t *testing.T) {
	svc := &stubKPIService{result: &services.KPIListResult{
		Summary: services.Summary{AchievementRate: 40},
	}}
	mux := newKPIMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/kpis/summary"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body services.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 40.0, body.AchievementRate)
}

func TestKPIHandler_RequiresAuthentication(t *testing.T) {
	mux := newKPIMux(&stubKPIService{result: &services.KPIListResult{}})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kpis", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
