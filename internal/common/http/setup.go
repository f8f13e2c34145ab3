package http

import (
	"net/http"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
	"github.com/gnr-surgicals/inventory/internal/common/httpmetrics"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
)

// BuildBaseHandler wraps handler in the middleware shared by every route.
func BuildBaseHandler(log *logger.Logger, allowedOrigins []string, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	cors := CORSMiddleware(allowedOrigins, log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(recovery(traceID(cors(maxRequestSize(collector.Wrap(handler)))))))
}
