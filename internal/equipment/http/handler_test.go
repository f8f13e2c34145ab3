package http

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	commonhttp "github.com/gnr-surgicals/inventory/internal/common/http"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
	"github.com/gnr-surgicals/inventory/internal/equipment/service"
)

type mockEquipmentService struct {
	listFunc         func(ctx context.Context, filter domain.Filter) ([]domain.Equipment, error)
	getFunc          func(ctx context.Context, id string) (domain.Equipment, error)
	createFunc       func(ctx context.Context, input domain.Input) (domain.Equipment, error)
	updateFunc       func(ctx context.Context, id string, input domain.Input) (domain.Equipment, error)
	adjustStatusFunc func(ctx context.Context, id string, input service.AdjustStatusInput) (domain.Equipment, error)
	deleteFunc       func(ctx context.Context, id string) (service.DeleteResult, error)
}

func (m *mockEquipmentService) List(ctx context.Context, filter domain.Filter) ([]domain.Equipment, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockEquipmentService) Get(ctx context.Context, id string) (domain.Equipment, error) {
	return m.getFunc(ctx, id)
}

func (m *mockEquipmentService) Create(ctx context.Context, input domain.Input) (domain.Equipment, error) {
	return m.createFunc(ctx, input)
}

func (m *mockEquipmentService) Update(ctx context.Context, id string, input domain.Input) (domain.Equipment, error) {
	return m.updateFunc(ctx, id, input)
}

func (m *mockEquipmentService) AdjustStatus(ctx context.Context, id string, input service.AdjustStatusInput) (domain.Equipment, error) {
	return m.adjustStatusFunc(ctx, id, input)
}

func (m *mockEquipmentService) Delete(ctx context.Context, id string) (service.DeleteResult, error) {
	return m.deleteFunc(ctx, id)
}

func passThrough(next http.Handler) http.Handler { return next }

func serve(t *testing.T, svc EquipmentService, protect func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(svc, logger.NewWriter(io.Discard, "test", "ERROR")).Routes(mux, protect)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) commonhttp.ErrorEnvelope {
	t.Helper()
	var env commonhttp.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestList_PassesQueryFilters(t *testing.T) {
	var got domain.Filter
	svc := &mockEquipmentService{
		listFunc: func(ctx context.Context, filter domain.Filter) ([]domain.Equipment, error) {
			got = filter
			return []domain.Equipment{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/equipment?category=Instruments&search=sc&status=available", nil)
	rec := serve(t, svc, passThrough, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != (domain.Filter{Category: "Instruments", Search: "sc", Status: "available"}) {
		t.Fatalf("unexpected filter %+v", got)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty JSON array, got %s", body)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := &mockEquipmentService{
		getFunc: func(ctx context.Context, id string) (domain.Equipment, error) {
			if id != "abc" {
				t.Errorf("unexpected id %q", id)
			}
			return domain.Equipment{}, commonerrors.ErrEquipmentNotFound
		},
	}

	rec := serve(t, svc, passThrough, httptest.NewRequest(http.MethodGet, "/api/equipment/abc", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "EQUIPMENT_NOT_FOUND" {
		t.Fatalf("unexpected code %s", env.Code)
	}
}

func TestCreate_Returns201(t *testing.T) {
	svc := &mockEquipmentService{
		createFunc: func(ctx context.Context, input domain.Input) (domain.Equipment, error) {
			e := domain.Equipment{ID: "id-1"}
			e.Apply(input)
			return e, nil
		},
	}

	body := `{"name":"IV Stand","sku":"IV500","category":"Furniture","quantity":15,"costPerUnit":89.99,
		"statusCounts":{"available":10,"in_use":4,"maintenance":1},"location":"Patient Rooms"}`
	rec := serve(t, svc, passThrough, httptest.NewRequest(http.MethodPost, "/api/equipment", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var got domain.Equipment
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SKU != "IV500" || got.StatusCounts.InUse != 4 || math.Abs(got.TotalCost-15*89.99) > 1e-9 {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestCreate_DuplicateSKUIs400(t *testing.T) {
	svc := &mockEquipmentService{
		createFunc: func(ctx context.Context, input domain.Input) (domain.Equipment, error) {
			return domain.Equipment{}, commonerrors.ErrSKUTaken
		},
	}

	rec := serve(t, svc, passThrough, httptest.NewRequest(http.MethodPost, "/api/equipment", strings.NewReader(`{"sku":"SS001"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdjustStatus_DecodesChange(t *testing.T) {
	var got service.AdjustStatusInput
	svc := &mockEquipmentService{
		adjustStatusFunc: func(ctx context.Context, id string, input service.AdjustStatusInput) (domain.Equipment, error) {
			got = input
			return domain.Equipment{ID: domain.ID(id)}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/equipment/abc/status", strings.NewReader(`{"status":"available","change":-5}`))
	rec := serve(t, svc, passThrough, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Status != "available" || got.Change == nil || *got.Change != -5 {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestAdjustStatus_MissingChangeIsNil(t *testing.T) {
	svc := &mockEquipmentService{
		adjustStatusFunc: func(ctx context.Context, id string, input service.AdjustStatusInput) (domain.Equipment, error) {
			if input.Change != nil {
				t.Errorf("expected nil change")
			}
			return domain.Equipment{}, commonerrors.ErrInvalidInput
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/equipment/abc/status", strings.NewReader(`{"status":"available"}`))
	rec := serve(t, svc, passThrough, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDelete_Message(t *testing.T) {
	svc := &mockEquipmentService{
		deleteFunc: func(ctx context.Context, id string) (service.DeleteResult, error) {
			return service.DeleteResult{Message: "Equipment deleted successfully"}, nil
		},
	}

	rec := serve(t, svc, passThrough, httptest.NewRequest(http.MethodDelete, "/api/equipment/abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["message"] != "Equipment deleted successfully" {
		t.Fatalf("unexpected body %v (%v)", body, err)
	}
}

func TestRoutes_AreProtected(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/equipment", nil),
		httptest.NewRequest(http.MethodGet, "/api/equipment/abc", nil),
		httptest.NewRequest(http.MethodPost, "/api/equipment", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodPut, "/api/equipment/abc", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodPatch, "/api/equipment/abc/status", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodDelete, "/api/equipment/abc", nil),
	}

	for _, req := range requests {
		rec := serve(t, &mockEquipmentService{}, deny, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", req.Method, req.URL.Path, rec.Code)
		}
	}
}
