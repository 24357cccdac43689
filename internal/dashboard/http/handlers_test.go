package dashboardhttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gninraw7/psms/internal/dashboard"
	"github.com/gninraw7/psms/internal/shared"
)

type stubService struct {
	lastYear int
	result   *dashboard.Dashboard
	err      error
}

func (s *stubService) Build(_ context.Context, _ shared.Tenant, year int) (*dashboard.Dashboard, error) {
	s.lastYear = year
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestServer(svc DashboardService, now func() time.Time) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, svc)
	h.WithNow(now)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if code := req.Header.Get("X-Company-Code"); code != "" {
				req = req.WithContext(shared.ContextWithTenant(req.Context(), shared.Tenant{CompanyCode: code}))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.MountRoutes(r)
	return httptest.NewServer(r)
}

func get(t *testing.T, ts *httptest.Server, path string, tenant string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if tenant != "" {
		req.Header.Set("X-Company-Code", tenant)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func fixedNow() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

func TestDashboardEndpointOK(t *testing.T) {
	svc := &stubService{result: &dashboard.Dashboard{Year: 2024, AvailableYears: []int{2024}}}
	ts := newTestServer(svc, fixedNow)
	defer ts.Close()

	resp, body := get(t, ts, "/reports/ceo-dashboard?year=2024", "C100")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2024, svc.lastYear)

	var payload dashboard.Dashboard
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, 2024, payload.Year)
}

func TestDashboardEndpointYearDefaultsToClock(t *testing.T) {
	svc := &stubService{result: &dashboard.Dashboard{}}
	ts := newTestServer(svc, fixedNow)
	defer ts.Close()

	resp, _ := get(t, ts, "/reports/ceo-dashboard", "C100")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2025, svc.lastYear)
}

func TestDashboardEndpointInvalidYear(t *testing.T) {
	svc := &stubService{result: &dashboard.Dashboard{}}
	ts := newTestServer(svc, fixedNow)
	defer ts.Close()

	resp, body := get(t, ts, "/reports/ceo-dashboard?year=abc", "C100")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Invalid Parameter")
}

func TestDashboardEndpointTenantRequired(t *testing.T) {
	svc := &stubService{result: &dashboard.Dashboard{}}
	ts := newTestServer(svc, fixedNow)
	defer ts.Close()

	resp, body := get(t, ts, "/reports/ceo-dashboard", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Tenant Required")
}

func TestDashboardEndpointServiceError(t *testing.T) {
	svc := &stubService{err: errors.New("derive failed")}
	ts := newTestServer(svc, fixedNow)
	defer ts.Close()

	resp, body := get(t, ts, "/reports/ceo-dashboard?year=2025", "C100")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "Dashboard Failed")
}
