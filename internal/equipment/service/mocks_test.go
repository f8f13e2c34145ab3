package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
	"github.com/gnr-surgicals/inventory/internal/equipment/feed"
	equipmentrepo "github.com/gnr-surgicals/inventory/internal/equipment/repository"
)

// memoryRepo mirrors the Postgres repository: unique sku, newest first for
// List, and a bucket adjustment that refuses to go below zero.
type memoryRepo struct {
	mu    sync.Mutex
	items map[domain.ID]domain.Equipment

	listFunc   func(ctx context.Context, category, search string) ([]domain.Equipment, error)
	adjustFunc func(ctx context.Context, id domain.ID, status domain.Status, change int) (domain.Equipment, error)
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[domain.ID]domain.Equipment)}
}

func (m *memoryRepo) sorted(desc bool) []domain.Equipment {
	out := make([]domain.Equipment, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *memoryRepo) List(ctx context.Context, category, search string) ([]domain.Equipment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, category, search)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(search)
	out := make([]domain.Equipment, 0)
	for _, e := range m.sorted(true) {
		if category != "" && e.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.SKU), needle) &&
			!strings.Contains(strings.ToLower(e.Location), needle) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryRepo) ListByCategory(_ context.Context, category string) ([]domain.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Equipment, 0)
	for _, e := range m.sorted(false) {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListAll(_ context.Context) ([]domain.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(false), nil
}

func (m *memoryRepo) Get(_ context.Context, id domain.ID) (domain.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return domain.Equipment{}, equipmentrepo.ErrEquipmentNotFound
	}
	return e, nil
}

func (m *memoryRepo) skuTaken(sku string, except domain.ID) bool {
	for id, e := range m.items {
		if e.SKU == sku && id != except {
			return true
		}
	}
	return false
}

func (m *memoryRepo) Create(_ context.Context, e domain.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skuTaken(e.SKU, "") {
		return equipmentrepo.ErrSKUAlreadyExists
	}
	m.items[e.ID] = e
	return nil
}

func (m *memoryRepo) Update(_ context.Context, e domain.Equipment) (domain.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.items[e.ID]
	if !ok {
		return domain.Equipment{}, equipmentrepo.ErrEquipmentNotFound
	}
	if m.skuTaken(e.SKU, e.ID) {
		return domain.Equipment{}, equipmentrepo.ErrSKUAlreadyExists
	}
	e.CreatedAt = current.CreatedAt
	m.items[e.ID] = e
	return e, nil
}

func (m *memoryRepo) AdjustStatus(ctx context.Context, id domain.ID, status domain.Status, change int, at time.Time) (domain.Equipment, error) {
	if m.adjustFunc != nil {
		return m.adjustFunc(ctx, id, status, change)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return domain.Equipment{}, equipmentrepo.ErrEquipmentNotFound
	}

	counts := e.StatusCounts
	var bucket *int
	switch status {
	case domain.StatusAvailable:
		bucket = &counts.Available
	case domain.StatusInUse:
		bucket = &counts.InUse
	case domain.StatusMaintenance:
		bucket = &counts.Maintenance
	}
	if *bucket+change < 0 {
		return domain.Equipment{}, equipmentrepo.ErrNegativeStatusCount
	}
	*bucket += change

	e.StatusCounts = counts
	e.UpdatedAt = at
	m.items[id] = e
	return e, nil
}

func (m *memoryRepo) Delete(_ context.Context, id domain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return equipmentrepo.ErrEquipmentNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryRepo) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.items))
	m.items = make(map[domain.ID]domain.Equipment)
	return n, nil
}

type sequentialIDs struct {
	ids []string
	n   int
}

func (g *sequentialIDs) NewID() (string, error) {
	id := g.ids[g.n%len(g.ids)]
	g.n++
	return id, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []feed.Event
}

func (p *recordingPublisher) Publish(event feed.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []feed.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]feed.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
