package service

import (
	"math"
	"sort"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
)

func summarize(items []domain.Equipment) Summary {
	s := Summary{
		TotalEquipmentTypes: len(items),
		CategoryTotals:      make(map[string]CategoryTotal),
	}

	for _, item := range items {
		s.TotalUnits += item.Quantity
		s.TotalCost += item.TotalCost
		s.StatusTotals = s.StatusTotals.Add(item.StatusCounts)

		ct := s.CategoryTotals[item.Category]
		ct.Count++
		ct.Units += item.Quantity
		ct.Cost += item.TotalCost
		s.CategoryTotals[item.Category] = ct
	}

	return s
}

// detail expects items in creation order; ties in the rankings keep it.
func detail(category string, items []domain.Equipment) CategoryDetail {
	d := CategoryDetail{
		Category:   category,
		TotalItems: len(items),
		Equipment:  items,
	}

	for _, item := range items {
		d.TotalUnits += item.Quantity
		d.TotalCost += item.TotalCost
		d.StatusTotals = d.StatusTotals.Add(item.StatusCounts)
	}

	d.MostExpensive = mostExpensive(items)
	d.LowAvailability = lowAvailability(items)
	return d
}

func mostExpensive(items []domain.Equipment) []CostEntry {
	ranked := make([]domain.Equipment, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCost > ranked[j].TotalCost
	})

	out := make([]CostEntry, 0, constants.TopExpensiveLimit)
	for _, item := range ranked {
		if len(out) == constants.TopExpensiveLimit {
			break
		}
		out = append(out, CostEntry{
			Name:      item.Name,
			SKU:       item.SKU,
			TotalCost: item.TotalCost,
			Quantity:  item.Quantity,
		})
	}
	return out
}

type availability struct {
	item    domain.Equipment
	percent float64
}

// lowAvailability lists items with units whose available share is under 20%,
// lowest share first.
func lowAvailability(items []domain.Equipment) []AvailabilityEntry {
	low := make([]availability, 0)
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		pct := float64(item.StatusCounts.Available) / float64(item.Quantity) * 100
		if pct < constants.LowAvailabilityThreshold {
			low = append(low, availability{item: item, percent: pct})
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].percent < low[j].percent
	})

	out := make([]AvailabilityEntry, 0, constants.LowAvailabilityLimit)
	for _, a := range low {
		if len(out) == constants.LowAvailabilityLimit {
			break
		}
		out = append(out, AvailabilityEntry{
			Name:       a.item.Name,
			SKU:        a.item.SKU,
			Available:  a.item.StatusCounts.Available,
			Total:      a.item.Quantity,
			Percentage: roundHalfUp(a.percent),
		})
	}
	return out
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
