package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"onnxd/internal/metrics"
)

// statusRecorder wraps http.ResponseWriter to capture the status code for
// metrics after the handler has written its response.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments every request against sink, labeling by
// chi's resolved route pattern rather than the raw path to avoid
// high-cardinality label values (e.g. /models/{name} rather than one
// series per model name).
func MetricsMiddleware(sink *metrics.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sr, r)
			route := routePatternOrPath(r)
			status := strconv.Itoa(sr.status)
			sink.RecordRequest(route, r.Method, status, sr.status >= 400, time.Since(start))
		})
	}
}

func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
