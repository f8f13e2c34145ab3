package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/stats/service"
)

type mockStatsService struct {
	summaryFunc  func(ctx context.Context) (service.Summary, error)
	categoryFunc func(ctx context.Context, category string) (service.CategoryDetail, error)
}

func (m *mockStatsService) Summary(ctx context.Context) (service.Summary, error) {
	return m.summaryFunc(ctx)
}

func (m *mockStatsService) CategoryDetail(ctx context.Context, category string) (service.CategoryDetail, error) {
	return m.categoryFunc(ctx, category)
}

func serve(svc StatsService, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	NewHandler(svc, logger.NewWriter(io.Discard, "test", "ERROR")).
		Routes(mux, func(next http.Handler) http.Handler { return next })
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSummary(t *testing.T) {
	svc := &mockStatsService{
		summaryFunc: func(ctx context.Context) (service.Summary, error) {
			return service.Summary{TotalEquipmentTypes: 2, TotalUnits: 175, CategoryTotals: map[string]service.CategoryTotal{}}, nil
		},
	}

	rec := serve(svc, httptest.NewRequest(http.MethodGet, "/api/stats/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.EqualValues(t, 175, body["totalUnits"])
	assert.EqualValues(t, 2, body["totalEquipmentTypes"])
	assert.Contains(t, body, "statusTotals")
}

func TestCategory_DecodesPathName(t *testing.T) {
	var got string
	svc := &mockStatsService{
		categoryFunc: func(ctx context.Context, category string) (service.CategoryDetail, error) {
			got = category
			return service.CategoryDetail{Category: category}, nil
		},
	}

	rec := serve(svc, httptest.NewRequest(http.MethodGet, "/api/stats/category/Patient%20Care", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patient Care", got)
}

func TestCategory_NotFound(t *testing.T) {
	svc := &mockStatsService{
		categoryFunc: func(ctx context.Context, category string) (service.CategoryDetail, error) {
			return service.CategoryDetail{}, commonerrors.ErrCategoryNotFound
		},
	}

	rec := serve(svc, httptest.NewRequest(http.MethodGet, "/api/stats/category/Diagnostic", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
