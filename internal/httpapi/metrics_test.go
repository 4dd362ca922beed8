package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"onnxd/internal/metrics"
)

func TestMetricsMiddlewareRecordsRoute(t *testing.T) {
	sink := metrics.New(nil)
	r := chi.NewRouter()
	r.Use(MetricsMiddleware(sink))
	r.Get("/models/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/foo", nil))

	got := testutil.ToFloat64(sink.RequestsTotal.WithLabelValues("/models/{name}", http.MethodGet, "200"))
	if got != 1 {
		t.Fatalf("requests_total = %v, want 1", got)
	}
}

func TestMetricsMiddlewareRecordsErrors(t *testing.T) {
	sink := metrics.New(nil)
	r := chi.NewRouter()
	r.Use(MetricsMiddleware(sink))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	got := testutil.ToFloat64(sink.RequestErrorsTotal.WithLabelValues("/boom", "500"))
	if got != 1 {
		t.Fatalf("request_errors_total = %v, want 1", got)
	}
}

func TestRoutePatternOrPathFallsBackToRawPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/unmatched", nil)
	if got := routePatternOrPath(r); got != "/unmatched" {
		t.Fatalf("routePatternOrPath = %q", got)
	}
}
