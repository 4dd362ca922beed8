package httpapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsMiddleware returns a no-op passthrough when CORS is disabled, so
// NewMux can always chain it without a conditional in the router setup.
func corsMiddleware(opts CORSOptions) func(http.Handler) http.Handler {
	if !opts.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: opts.AllowedMethods,
		AllowedHeaders: opts.AllowedHeaders,
	})
}
