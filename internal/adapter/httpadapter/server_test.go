package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
	"github.com/couchcryptid/drill-recommendation-service/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error {
	return m.err
}

type fakeScheduler struct {
	got []domain.ScheduleDrillRequest
	err error
}

func (f *fakeScheduler) ScheduleDrill(_ context.Context, req domain.ScheduleDrillRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	f.got = append(f.got, req)
	return fmt.Sprintf("drill-%d", len(f.got)), nil
}

type testEnv struct {
	srv       *Server
	scheduler *fakeScheduler
	metrics   *observability.Metrics
}

func newTestServer(t *testing.T, ready *mockReadiness, opts Options) testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	scheduler := &fakeScheduler{}
	opts.Metrics = metrics
	api := NewAPI(domain.CurrentCatalog(), scheduler, metrics, logger)
	return testEnv{
		srv:       NewServer(":0", api, ready, logger, opts),
		scheduler: scheduler,
		metrics:   metrics,
	}
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	env := newTestServer(t, &mockReadiness{err: errors.New("not ready yet")}, Options{})

	rec := do(t, env.srv, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAllReady(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, AllReady(&mockReadiness{}, &mockReadiness{}).CheckReadiness(ctx))

	err := AllReady(&mockReadiness{}, &mockReadiness{err: errors.New("store closed")}).CheckReadiness(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store closed")
}

func TestRecommend(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodPost, "/api/v1/recommendations", `{
		"class_id": "7B",
		"students": [
			{"student_id": "s1", "city": "Guwahati"},
			{"student_id": "s2", "city": "Guwahati"},
			{"student_id": "s3", "city": "Chennai"}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got domain.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "7B", got.ClassID)
	assert.Equal(t, []string{"Guwahati", "Chennai"}, got.DistinctLocations)
	assert.Equal(t, 3, got.RiskSummary.TotalStudents)
	require.NotEmpty(t, got.MergedDrills)
	for i := 1; i < len(got.MergedDrills); i++ {
		assert.LessOrEqual(t, got.MergedDrills[i-1].Priority, got.MergedDrills[i].Priority)
	}
	assert.Equal(t, 1, testutil.CollectAndCount(env.metrics.MergedDrills))
	assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.APIRequests.WithLabelValues("/api/v1/recommendations", "200")), 0)
}

func TestRecommend_EmptyRoster(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodPost, "/api/v1/recommendations", `{"class_id":"8A","students":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.MergedDrills)
	assert.Zero(t, got.RiskSummary.TotalStudents)
}

func TestRecommend_MalformedBody(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodPost, "/api/v1/recommendations", `{"students": "nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "invalid roster")
}

func TestLocationRoutes(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	tests := []struct {
		name     string
		path     string
		wantKey  string
		wantSize int // -1 means non-empty
	}{
		{"known risks", "/api/v1/locations/Mumbai/risks", "risks", -1},
		{"unknown risks", "/api/v1/locations/Atlantis/risks", "risks", 0},
		{"unknown modules", "/api/v1/locations/Atlantis/modules", "modules", 1},
		{"known modules", "/api/v1/locations/mumbai/modules", "modules", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, env.srv, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)

			items, ok := decode(t, rec)[tt.wantKey].([]any)
			require.True(t, ok, "%s should be a JSON array", tt.wantKey)
			if tt.wantSize < 0 {
				assert.NotEmpty(t, items)
			} else {
				assert.Len(t, items, tt.wantSize)
			}
		})
	}
}

func TestLocationStats(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodGet, "/api/v1/locations/Atlantis/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.LocationStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Atlantis", got.Location)
	assert.Zero(t, got.TotalRecommendedDrills)
	assert.Len(t, got.ByRiskLevel, 4)
}

func TestScheduleDrill(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})

	rec := do(t, env.srv, http.MethodPost, "/api/v1/drills", `{
		"class_id": "7B",
		"hazard": "flood",
		"date": "2025-06-10",
		"time": "10:30",
		"expected_participants": 31
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "drill-1", decode(t, rec)["id"])

	require.Len(t, env.scheduler.got, 1)
	got := env.scheduler.got[0]
	assert.Equal(t, domain.HazardFlood, got.Hazard)
	assert.Equal(t, domain.DefaultDrillMinutes, got.DurationMinutes)
	assert.Equal(t, "2025-06-10", got.Date.Format("2006-01-02"))
	assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.DrillsScheduled.WithLabelValues("Flood")), 0)
}

func TestScheduleDrill_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"class_id":"7B","hazard":"Flood","date":"10/06/2025","time":"10:30"}`},
		{"unknown hazard", `{"class_id":"7B","hazard":"Meteor","date":"2025-06-10","time":"10:30"}`},
		{"bad time", `{"class_id":"7B","hazard":"Flood","date":"2025-06-10","time":"soon"}`},
		{"missing date", `{"class_id":"7B","hazard":"Flood","time":"10:30"}`},
		{"not json", `hazard=Flood`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestServer(t, &mockReadiness{}, Options{})

			rec := do(t, env.srv, http.MethodPost, "/api/v1/drills", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, env.scheduler.got)
		})
	}
}

func TestScheduleDrill_StoreFailure(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{})
	env.scheduler.err = errors.New("disk full")

	rec := do(t, env.srv, http.MethodPost, "/api/v1/drills",
		`{"class_id":"7B","hazard":"Flood","date":"2025-06-10","time":"10:30"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestRateLimit(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{RateLimit: 1})

	first := do(t, env.srv, http.MethodGet, "/api/v1/locations/Mumbai/risks", "")
	second := do(t, env.srv, http.MethodGet, "/api/v1/locations/Mumbai/risks", "")
	health := do(t, env.srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "rate limit exceeded", decode(t, second)["error"])
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestRateLimit_ZeroDisables(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{RateLimit: 0})

	for i := range 5 {
		rec := do(t, env.srv, http.MethodGet, "/api/v1/locations/Mumbai/risks", "")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestCORS(t *testing.T) {
	env := newTestServer(t, &mockReadiness{}, Options{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/Mumbai/risks", nil)
	req.Header.Set("Origin", "https://school.example")
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
