package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/httpmetrics"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError writes the error envelope for err. Domain errors keep their own
// status and code; anything else is logged and returned as a 500 carrying the
// underlying message.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	status := http.StatusInternalServerError
	code := CodeInternalError
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
		code = commonerrors.ErrCircuitOpen.Code()
	}

	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
		"path":   r.URL.Path,
	}
	if traceID != "" {
		w.Header().Set(traceIDHeader, traceID)
	}

	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, code, err.Error(), nil, traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	domainErr := err
	if traceID != "" && err.TraceID() == "" {
		domainErr = err.WithTraceID(traceID)
	}

	status := domainErr.HTTPStatus()
	message := domainErr.Message()

	logFields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(ctx, logFields).Errorf("domain error: %s", domainErr.Error())
		if cause := domainErr.Unwrap(); cause != nil {
			message = cause.Error()
		}
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	if traceID != "" {
		w.Header().Set(traceIDHeader, traceID)
	}

	WriteErrorEnvelope(w, status, domainErr.Code(), message, nil, domainErr.TraceID())
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
