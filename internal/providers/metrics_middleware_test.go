package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/y-exe/ymkw-top/internal/structures"
)

type middlewareTestMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
}

func (m *middlewareTestMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *middlewareTestMetrics) ObserveRequestDuration(_ string, _ time.Duration)  { m.durationCalls++ }
func (m *middlewareTestMetrics) IncCacheHits()                                     {}
func (m *middlewareTestMetrics) IncCacheMisses()                                   {}
func (m *middlewareTestMetrics) IncUpstreamRequests(_, _ string)                   {}
func (m *middlewareTestMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (m *middlewareTestMetrics) IncActivations(_ string)                           {}
func (m *middlewareTestMetrics) ObserveActivationDuration(_ time.Duration)         {}

func middlewareTestRoutes() []structures.Route {
	return []structures.Route{
		{Url: "/api/dashboard"},
		{Url: "/api/channels"},
	}
}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &middlewareTestMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	mw := MetricsMiddleware(metrics, middlewareTestRoutes(), handler)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, "/api/dashboard", metrics.requestEndpoint)
	assert.Equal(t, http.StatusBadGateway, metrics.requestStatus)
	assert.Equal(t, 1, metrics.durationCalls)
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	metrics := &middlewareTestMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mw := MetricsMiddleware(metrics, middlewareTestRoutes(), handler)

	req := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
}

func TestMetricsMiddleware_UnknownPathCollapsesToOther(t *testing.T) {
	metrics := &middlewareTestMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	mw := MetricsMiddleware(metrics, middlewareTestRoutes(), handler)

	// Crawler noise must not mint one label per scanned path.
	req := httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, "other", metrics.requestEndpoint)
	assert.Equal(t, http.StatusNotFound, metrics.requestStatus)
}

func TestStatusWriter_WriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}

	sw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, sw.status)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
