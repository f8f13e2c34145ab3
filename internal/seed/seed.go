package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/gnr-surgicals/inventory/internal/common/clock"
	commoncrypto "github.com/gnr-surgicals/inventory/internal/common/crypto"
	"github.com/gnr-surgicals/inventory/internal/common/db"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
	equipmentrepo "github.com/gnr-surgicals/inventory/internal/equipment/repository"
)

type Report struct {
	Removed    int64
	Types      int
	Units      int
	TotalCost  float64
	Categories []string
}

// RepoFactory binds an equipment repository to the transaction's querier.
type RepoFactory func(q db.Querier) equipmentrepo.Repository

type Seeder struct {
	tx          db.TxManager
	repoFor     RepoFactory
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewSeeder(tx db.TxManager, repoFor RepoFactory, ids commoncrypto.IDGenerator, c clock.Clock) *Seeder {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &Seeder{tx: tx, repoFor: repoFor, idGenerator: ids, clock: c}
}

// Run replaces all equipment with inputs in one transaction. Creation times
// are spaced a millisecond apart so listings keep the catalogue order.
func (s *Seeder) Run(ctx context.Context, inputs []domain.Input) (Report, error) {
	var report Report

	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		repo := s.repoFor(q)

		removed, err := repo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		report.Removed = removed

		base := s.clock.Now()
		for i, in := range inputs {
			id, err := s.idGenerator.NewID()
			if err != nil {
				return err
			}
			at := base.Add(time.Duration(i) * time.Millisecond)
			item := domain.Equipment{ID: domain.ID(id), CreatedAt: at, UpdatedAt: at}
			item.Apply(in)

			if err := repo.Create(ctx, item); err != nil {
				return fmt.Errorf("insert %s: %w", in.SKU, err)
			}
			report.add(item)
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

func (r *Report) add(item domain.Equipment) {
	r.Types++
	r.Units += item.Quantity
	r.TotalCost += item.TotalCost
	for _, c := range r.Categories {
		if c == item.Category {
			return
		}
	}
	r.Categories = append(r.Categories, item.Category)
}
