package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestHandlerExposesRuntimeCollectors(t *testing.T) {
	assert.Contains(t, scrape(t, NewMetrics()), "go_goroutines")
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	for _, id := range []string{"1", "2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		require.Equal(t, http.StatusConflict, rr.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("/orders/{id}", "409")))
	assert.Contains(t, scrape(t, metrics), `oms_http_request_duration_seconds_bucket{route="/orders/{id}"`)
}

func TestMiddlewareWithoutRoute(t *testing.T) {
	metrics := NewMetrics()
	h := metrics.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("unknown", "200")))
}

func TestRecordDenial(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordDenial("COUNTRY_MANAGERS", "ADMIN")
	metrics.RecordDenial("ORDERS", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.permissionDenials.WithLabelValues("COUNTRY_MANAGERS", "ADMIN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.permissionDenials.WithLabelValues("ORDERS", "none")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordDenial("ORDERS", "USER") })
	rr := httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
