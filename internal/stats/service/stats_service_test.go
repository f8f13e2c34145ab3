package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
)

type mockReader struct {
	listAllFunc        func(ctx context.Context) ([]domain.Equipment, error)
	listByCategoryFunc func(ctx context.Context, category string) ([]domain.Equipment, error)
}

func (m *mockReader) ListAll(ctx context.Context) ([]domain.Equipment, error) {
	return m.listAllFunc(ctx)
}

func (m *mockReader) ListByCategory(ctx context.Context, category string) ([]domain.Equipment, error) {
	return m.listByCategoryFunc(ctx, category)
}

func item(name, sku, category string, quantity int, cost float64, counts domain.StatusCounts) domain.Equipment {
	e := domain.Equipment{ID: domain.ID(sku), CreatedAt: time.Now()}
	e.Apply(domain.Input{
		Name:         name,
		SKU:          sku,
		Category:     category,
		Quantity:     quantity,
		CostPerUnit:  cost,
		StatusCounts: counts,
	})
	return e
}

func newTestService(reader Reader) *StatsService {
	return NewStatsService(Deps{
		Reader: reader,
		Log:    logger.NewWriter(io.Discard, "test", "ERROR"),
	})
}

func TestSummary_TwoItemSample(t *testing.T) {
	items := []domain.Equipment{
		item("Surgical Scissors", "SS001", "Instruments", 25, 45.99, domain.StatusCounts{Available: 18, InUse: 5, Maintenance: 2}),
		item("Disposable Gloves (Box)", "GL100", "Consumables", 150, 12.50, domain.StatusCounts{Available: 120, InUse: 30}),
	}
	svc := newTestService(&mockReader{
		listAllFunc: func(ctx context.Context) ([]domain.Equipment, error) { return items, nil },
	})

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalEquipmentTypes)
	assert.Equal(t, 175, s.TotalUnits)
	assert.InDelta(t, 25*45.99+150*12.50, s.TotalCost, 1e-9)
	assert.Equal(t, domain.StatusCounts{Available: 138, InUse: 35, Maintenance: 2}, s.StatusTotals)
	instruments := s.CategoryTotals["Instruments"]
	assert.Equal(t, 1, instruments.Count)
	assert.Equal(t, 25, instruments.Units)
	assert.InDelta(t, 25*45.99, instruments.Cost, 1e-9)
	assert.Equal(t, CategoryTotal{Count: 1, Units: 150, Cost: 150 * 12.50}, s.CategoryTotals["Consumables"])
}

func TestSummary_Empty(t *testing.T) {
	svc := newTestService(&mockReader{
		listAllFunc: func(ctx context.Context) ([]domain.Equipment, error) { return []domain.Equipment{}, nil },
	})

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.TotalEquipmentTypes)
	assert.NotNil(t, s.CategoryTotals)
	assert.Empty(t, s.CategoryTotals)
}

func TestSummary_StoreError(t *testing.T) {
	svc := newTestService(&mockReader{
		listAllFunc: func(ctx context.Context) ([]domain.Equipment, error) { return nil, errors.New("boom") },
	})

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, commonerrors.ErrDatabaseError)
}

func TestCategoryDetail_NotFound(t *testing.T) {
	svc := newTestService(&mockReader{
		listByCategoryFunc: func(ctx context.Context, category string) ([]domain.Equipment, error) {
			return []domain.Equipment{}, nil
		},
	})

	_, err := svc.CategoryDetail(context.Background(), "Diagnostic")
	require.Error(t, err)
	assert.ErrorIs(t, err, commonerrors.ErrCategoryNotFound)

	de, ok := commonerrors.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, 404, de.HTTPStatus())
}

func TestCategoryDetail_Rankings(t *testing.T) {
	items := []domain.Equipment{
		item("A", "A1", "Diagnostic", 10, 10, domain.StatusCounts{Available: 1}),   // 100, 10%
		item("B", "B1", "Diagnostic", 10, 30, domain.StatusCounts{Available: 5}),   // 300, 50%
		item("C", "C1", "Diagnostic", 8, 12.5, domain.StatusCounts{Available: 1}),  // 100, 12.5%
		item("D", "D1", "Diagnostic", 0, 999, domain.StatusCounts{}),               // 0, skipped
		item("E", "E1", "Diagnostic", 40, 1, domain.StatusCounts{Available: 1}),    // 40, 2.5%
		item("F", "F1", "Diagnostic", 200, 0.5, domain.StatusCounts{Available: 1}), // 100, 0.5%
		item("G", "G1", "Diagnostic", 1, 1, domain.StatusCounts{Available: 0}),     // 1, 0%
		item("H", "H1", "Diagnostic", 40, 1, domain.StatusCounts{Available: 7}),    // 40, 17.5%
	}
	svc := newTestService(&mockReader{
		listByCategoryFunc: func(ctx context.Context, category string) ([]domain.Equipment, error) {
			assert.Equal(t, "Diagnostic", category)
			return items, nil
		},
	})

	d, err := svc.CategoryDetail(context.Background(), "Diagnostic")
	require.NoError(t, err)

	assert.Equal(t, "Diagnostic", d.Category)
	assert.Equal(t, 8, d.TotalItems)
	assert.Equal(t, 309, d.TotalUnits)
	assert.Equal(t, items, d.Equipment)

	skus := func(entries []CostEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.SKU
		}
		return out
	}
	// Equal costs keep creation order.
	assert.Equal(t, []string{"B1", "A1", "C1", "F1", "E1"}, skus(d.MostExpensive))

	require.Len(t, d.LowAvailability, 5)
	got := make([]string, len(d.LowAvailability))
	for i, e := range d.LowAvailability {
		got[i] = e.SKU
	}
	assert.Equal(t, []string{"G1", "F1", "E1", "A1", "C1"}, got)

	// 12.5 rounds up to 13, 2.5 rounds up to 3.
	assert.Equal(t, AvailabilityEntry{Name: "C", SKU: "C1", Available: 1, Total: 8, Percentage: 13}, d.LowAvailability[4])
	assert.Equal(t, 3, d.LowAvailability[2].Percentage)
	assert.Equal(t, 1, d.LowAvailability[1].Percentage)
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int{0: 0, 0.49: 0, 0.5: 1, 2.5: 3, 12.5: 13, 19.99: 20}
	for in, want := range cases {
		assert.Equal(t, want, roundHalfUp(in), "roundHalfUp(%v)", in)
	}
}
