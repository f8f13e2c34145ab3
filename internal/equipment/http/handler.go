package http

import (
	"context"
	"net/http"

	commonhttp "github.com/gnr-surgicals/inventory/internal/common/http"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
	"github.com/gnr-surgicals/inventory/internal/equipment/service"
)

type EquipmentService interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Equipment, error)
	Get(ctx context.Context, id string) (domain.Equipment, error)
	Create(ctx context.Context, input domain.Input) (domain.Equipment, error)
	Update(ctx context.Context, id string, input domain.Input) (domain.Equipment, error)
	AdjustStatus(ctx context.Context, id string, input service.AdjustStatusInput) (domain.Equipment, error)
	Delete(ctx context.Context, id string) (service.DeleteResult, error)
}

type statusRequest struct {
	Status string `json:"status"`
	Change *int   `json:"change"`
}

type Handler struct {
	equipment    EquipmentService
	log          *logger.Logger
	errorHandler *commonhttp.ErrorHandler
}

func NewHandler(equipment EquipmentService, log *logger.Logger) *Handler {
	return &Handler{
		equipment:    equipment,
		log:          log,
		errorHandler: commonhttp.NewErrorHandler(log),
	}
}

// Routes mounts the equipment endpoints, each wrapped by protect.
func (h *Handler) Routes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/equipment", protect(http.HandlerFunc(h.list)))
	mux.Handle("POST /api/equipment", protect(http.HandlerFunc(h.create)))
	mux.Handle("GET /api/equipment/{id}", protect(http.HandlerFunc(h.get)))
	mux.Handle("PUT /api/equipment/{id}", protect(http.HandlerFunc(h.update)))
	mux.Handle("PATCH /api/equipment/{id}/status", protect(http.HandlerFunc(h.adjustStatus)))
	mux.Handle("DELETE /api/equipment/{id}", protect(http.HandlerFunc(h.delete)))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.equipment.List(r.Context(), domain.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Status:   q.Get("status"),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.equipment.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input domain.Input
	if err := commonhttp.DecodeJSON(r, &input); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	item, err := h.equipment.Create(r.Context(), input)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var input domain.Input
	if err := commonhttp.DecodeJSON(r, &input); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	item, err := h.equipment.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) adjustStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	item, err := h.equipment.AdjustStatus(r.Context(), r.PathValue("id"), service.AdjustStatusInput{
		Status: req.Status,
		Change: req.Change,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.equipment.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, result)
}
