package service

import "github.com/gnr-surgicals/inventory/internal/equipment/domain"

type CategoryTotal struct {
	Count int     `json:"count"`
	Units int     `json:"units"`
	Cost  float64 `json:"cost"`
}

type Summary struct {
	TotalEquipmentTypes int                      `json:"totalEquipmentTypes"`
	TotalUnits          int                      `json:"totalUnits"`
	TotalCost           float64                  `json:"totalCost"`
	CategoryTotals      map[string]CategoryTotal `json:"categoryTotals"`
	StatusTotals        domain.StatusCounts      `json:"statusTotals"`
}

type CostEntry struct {
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	TotalCost float64 `json:"totalCost"`
	Quantity  int     `json:"quantity"`
}

type AvailabilityEntry struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Available  int    `json:"available"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

type CategoryDetail struct {
	Category        string              `json:"category"`
	TotalItems      int                 `json:"totalItems"`
	TotalUnits      int                 `json:"totalUnits"`
	TotalCost       float64             `json:"totalCost"`
	StatusTotals    domain.StatusCounts `json:"statusTotals"`
	MostExpensive   []CostEntry         `json:"mostExpensive"`
	LowAvailability []AvailabilityEntry `json:"lowAvailability"`
	Equipment       []domain.Equipment  `json:"equipment"`
}
