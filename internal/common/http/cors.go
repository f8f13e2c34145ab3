package http

import (
	"net/http"
	"strings"

	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

const (
	corsAllowedMethods = "GET, HEAD, PUT, PATCH, POST, DELETE, OPTIONS"
	corsAllowedHeaders = "Content-Type, Authorization, X-Requested-With, Accept, X-Trace-ID"
)

// CORSMiddleware admits requests without an Origin header and requests from
// allowedOrigins. Any other origin gets 403 CORS_BLOCKED.
func CORSMiddleware(allowedOrigins []string, log *logger.Logger) func(http.Handler) http.Handler {
	errorHandler := NewErrorHandler(log)
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := allowed[origin]; !ok {
				metrics.CORSBlocked.WithLabelValues(r.URL.Path).Inc()
				log.WithFields(r.Context(), logger.Fields{
					"action": "cors_blocked",
					"origin": origin,
				}).Warn("origin not allowed")
				errorHandler.HandleError(w, r, commonerrors.ErrCORSBlocked.WithMessage(
					"CORS policy: This origin is not allowed -> "+origin))
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
