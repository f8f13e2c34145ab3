package http

import (
	"context"
	"net/http"

	commonhttp "github.com/gnr-surgicals/inventory/internal/common/http"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/stats/service"
)

type StatsService interface {
	Summary(ctx context.Context) (service.Summary, error)
	CategoryDetail(ctx context.Context, category string) (service.CategoryDetail, error)
}

type Handler struct {
	stats        StatsService
	errorHandler *commonhttp.ErrorHandler
}

func NewHandler(stats StatsService, log *logger.Logger) *Handler {
	return &Handler{
		stats:        stats,
		errorHandler: commonhttp.NewErrorHandler(log),
	}
}

func (h *Handler) Routes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/stats/summary", protect(http.HandlerFunc(h.summary)))
	mux.Handle("GET /api/stats/category/{name}", protect(http.HandlerFunc(h.category)))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) category(w http.ResponseWriter, r *http.Request) {
	d, err := h.stats.CategoryDetail(r.Context(), r.PathValue("name"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, d)
}
