package service

import (
	"context"
	"time"

	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/common/resilience"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

// Reader is the read side of the equipment store the reports are built from.
type Reader interface {
	ListAll(ctx context.Context) ([]domain.Equipment, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Equipment, error)
}

type Deps struct {
	Reader  Reader
	Breaker *resilience.CircuitBreaker
	Log     *logger.Logger
}

type StatsService struct {
	reader  Reader
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

func NewStatsService(deps Deps) *StatsService {
	return &StatsService{
		reader:  deps.Reader,
		breaker: deps.Breaker,
		log:     deps.Log,
	}
}

func (s *StatsService) Summary(ctx context.Context) (Summary, error) {
	start := time.Now()
	defer observe("summary", start)

	var items []domain.Equipment
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.reader.ListAll(ctx)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "stats_summary_failed",
		}).Errorf("stats summary failed: %v", err)
		return Summary{}, err
	}

	return summarize(items), nil
}

// CategoryDetail fails with ErrCategoryNotFound when the category has no
// records.
func (s *StatsService) CategoryDetail(ctx context.Context, category string) (CategoryDetail, error) {
	start := time.Now()
	defer observe("category", start)

	var items []domain.Equipment
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.reader.ListByCategory(ctx, category)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"category": category,
			"action":   "stats_category_failed",
		}).Errorf("stats category failed: %v", err)
		return CategoryDetail{}, err
	}

	if len(items) == 0 {
		return CategoryDetail{}, commonerrors.ErrCategoryNotFound.WithMessage("Category not found or has no equipment")
	}

	return detail(category, items), nil
}

func (s *StatsService) call(ctx context.Context, fn func(context.Context) error) error {
	var err error
	if s.breaker == nil {
		err = fn(ctx)
	} else {
		err = s.breaker.Call(ctx, fn)
	}
	if err != nil && !commonerrors.IsDomainError(err) {
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
	return err
}

func observe(report string, start time.Time) {
	metrics.StatsReportDurationSeconds.WithLabelValues(report).Observe(time.Since(start).Seconds())
}
