package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/controllers"
	"leadtrack/internal/services"
	"leadtrack/internal/storage/memory"
	"leadtrack/internal/structures"
	"leadtrack/internal/testutil"
)

type noopTestMetrics struct{}

func (n *noopTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopTestMetrics) IncCacheHits()                                    {}
func (n *noopTestMetrics) IncCacheMisses()                                  {}
func (n *noopTestMetrics) IncLeadsStored()                                  {}
func (n *noopTestMetrics) IncChecks(_ bool)                                 {}
func (n *noopTestMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}

func testRouter() ([]structures.Route, *structures.Config) {
	logger := &testutil.MockLogger{}
	store := memory.NewStore()
	conf := &structures.Config{
		Tracking: structures.TrackingConfig{RedirectBase: "https://app.appsflyer.com"},
	}

	trackingSvc := services.NewTrackingService(conf, logger, store.Leads(), store.Checks(), store, &noopTestMetrics{})
	statsSvc := services.NewStatsService(store.Leads(), store.Checks())

	router := InitRoutes(
		controllers.NewTrackController(logger, trackingSvc),
		controllers.NewCheckController(logger, trackingSvc),
		controllers.NewStatsController(logger, statsSvc, testutil.NewMockCache()),
		controllers.NewMappingController(logger, store),
		controllers.NewCheckIPController(),
		conf,
	)
	return router.GetRoutes(), conf
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	routes, _ := testRouter()

	require.Len(t, routes, 8)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/track")
	assert.Contains(t, urls, "/check")
	assert.Contains(t, urls, "/api/stats")
	assert.Contains(t, urls, "/api/mappings")
	assert.Contains(t, urls, "/api/mapping")
	assert.Contains(t, urls, "/api/pixel-tokens")
	assert.Contains(t, urls, "/api/pixel-token")
	assert.Contains(t, urls, "/api/check-ip")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	routes, _ := testRouter()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /track with POST should fail
	req := httptest.NewRequest(http.MethodPost, "/track", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /api/mapping with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/api/mapping", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_TrackThenCheckRoundTrip(t *testing.T) {
	routes, _ := testRouter()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	ua := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

	req := httptest.NewRequest(http.MethodGet, "/track?app_id=100001&camp_id=camp42", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("User-Agent", ua)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/check?app_id=100001", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("User-Agent", ua)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "camp42")
}
