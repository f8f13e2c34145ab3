package domain

import (
	"math"
	"time"
)

type ID string

// Status names one of the three buckets an item's units are split across.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusInUse       Status = "in_use"
	StatusMaintenance Status = "maintenance"
)

var Statuses = []Status{StatusAvailable, StatusInUse, StatusMaintenance}

func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Counts are stored in INTEGER columns, so every count and quantity is
// capped at MaxUnitCount.
const MaxUnitCount = math.MaxInt32

type StatusCounts struct {
	Available   int `json:"available" validate:"gte=0,lte=2147483647"`
	InUse       int `json:"in_use" validate:"gte=0,lte=2147483647"`
	Maintenance int `json:"maintenance" validate:"gte=0,lte=2147483647"`
}

func (c StatusCounts) Get(s Status) int {
	switch s {
	case StatusAvailable:
		return c.Available
	case StatusInUse:
		return c.InUse
	case StatusMaintenance:
		return c.Maintenance
	}
	return 0
}

func (c StatusCounts) Add(o StatusCounts) StatusCounts {
	return StatusCounts{
		Available:   c.Available + o.Available,
		InUse:       c.InUse + o.InUse,
		Maintenance: c.Maintenance + o.Maintenance,
	}
}

type Equipment struct {
	ID           ID           `json:"id"`
	Name         string       `json:"name"`
	SKU          string       `json:"sku"`
	Category     string       `json:"category"`
	Quantity     int          `json:"quantity"`
	CostPerUnit  float64      `json:"costPerUnit"`
	TotalCost    float64      `json:"totalCost"`
	StatusCounts StatusCounts `json:"statusCounts"`
	Location     string       `json:"location"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Input is the client supplied part of a record, used for both create and
// full replacement.
type Input struct {
	Name         string       `json:"name" validate:"required,max=200"`
	SKU          string       `json:"sku" validate:"required,max=64"`
	Category     string       `json:"category" validate:"required,max=100"`
	Quantity     int          `json:"quantity" validate:"gte=0,lte=2147483647"`
	CostPerUnit  float64      `json:"costPerUnit" validate:"gte=0,lte=1000000000"`
	StatusCounts StatusCounts `json:"statusCounts"`
	Location     string       `json:"location" validate:"max=200"`
	Notes        string       `json:"notes" validate:"max=2000"`
}

// Apply copies input onto e and recomputes TotalCost.
func (e *Equipment) Apply(in Input) {
	e.Name = in.Name
	e.SKU = in.SKU
	e.Category = in.Category
	e.Quantity = in.Quantity
	e.CostPerUnit = in.CostPerUnit
	e.StatusCounts = in.StatusCounts
	e.Location = in.Location
	e.Notes = in.Notes
	e.TotalCost = TotalCost(in.Quantity, in.CostPerUnit)
}

func TotalCost(quantity int, costPerUnit float64) float64 {
	return float64(quantity) * costPerUnit
}

// Filter narrows List. Empty fields and "all" mean no restriction.
type Filter struct {
	Category string
	Search   string
	Status   string
}
