package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onnxd/internal/batch"
	"onnxd/internal/metrics"
	"onnxd/internal/obslog"
	"onnxd/internal/registry"
)

// Deps are the collaborators the HTTP layer needs. Nothing here is a
// package-level singleton; a server process builds one Deps in cmd/onnxd
// and passes it straight into NewMux.
type Deps struct {
	Registry        *registry.Registry
	Executor        *batch.Executor // nil when batching is disabled
	Metrics         *metrics.Sink
	Log             obslog.Logger
	BatchingEnabled bool
	DefaultLogLevel LogLevel
	CORS            CORSOptions
	StartTime       time.Time
	MetricsPath     string // defaults to /metrics when empty

	// BaseContext is canceled on process shutdown; request handling joins
	// it with the incoming request's context so in-flight work unblocks
	// during a graceful shutdown.
	BaseContext context.Context
}

// NewMux builds the HTTP handler tree for the server.
func NewMux(d Deps) chi.Router {
	if d.BaseContext == nil {
		d.BaseContext = context.Background()
	}
	h := &handlers{d: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware(d.CORS))
	if d.Metrics != nil {
		r.Use(MetricsMiddleware(d.Metrics))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", h.handleIndex)
	r.Get("/v1/models", h.handleListModels)
	r.Get("/v1/models/{name}", h.handleGetModel)
	r.Post("/v1/models/{name}/reload", h.handleReloadModel)
	r.Post("/v1/models/{name}/infer", h.handleInfer)
	r.Get("/status", h.handleStatus)
	r.Get("/health", h.handleHealthz)
	r.Get("/ready", h.handleReadyz)

	if d.Metrics != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Get(path, promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)
	}

	MountSwagger(r)
	return r
}

type handlers struct {
	d Deps
}
