package service

import (
	"context"
	"errors"

	"github.com/gnr-surgicals/inventory/internal/common/clock"
	"github.com/gnr-surgicals/inventory/internal/common/constants"
	commoncrypto "github.com/gnr-surgicals/inventory/internal/common/crypto"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/common/resilience"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
	"github.com/gnr-surgicals/inventory/internal/equipment/feed"
	equipmentrepo "github.com/gnr-surgicals/inventory/internal/equipment/repository"
)

const filterAll = "all"

type Publisher interface {
	Publish(event feed.Event)
}

type Deps struct {
	Repo        equipmentrepo.Repository
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Breaker     *resilience.CircuitBreaker
	Publisher   Publisher
	Log         *logger.Logger
}

type EquipmentService struct {
	repo        equipmentrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	breaker     *resilience.CircuitBreaker
	publisher   Publisher
	validator   *inputValidator
	log         *logger.Logger
}

func NewEquipmentService(deps Deps) *EquipmentService {
	c := deps.Clock
	if c == nil {
		c = clock.NewRealClock()
	}
	return &EquipmentService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		clock:       c,
		breaker:     deps.Breaker,
		publisher:   deps.Publisher,
		validator:   newInputValidator(),
		log:         deps.Log,
	}
}

type AdjustStatusInput struct {
	Status string
	Change *int
}

type DeleteResult struct {
	Message string `json:"message"`
}

// List applies category and search in the store and the status filter on
// the loaded rows. A status outside the three buckets matches nothing.
func (s *EquipmentService) List(ctx context.Context, filter domain.Filter) ([]domain.Equipment, error) {
	category := filter.Category
	if category == filterAll {
		category = ""
	}

	var items []domain.Equipment
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.repo.List(ctx, category, filter.Search)
		return err
	})
	if err != nil {
		return nil, err
	}

	if filter.Status == "" || filter.Status == filterAll {
		return items, nil
	}

	status, ok := domain.ParseStatus(filter.Status)
	if !ok {
		return []domain.Equipment{}, nil
	}

	filtered := make([]domain.Equipment, 0, len(items))
	for _, item := range items {
		if item.StatusCounts.Get(status) > 0 {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *EquipmentService) Get(ctx context.Context, rawID string) (domain.Equipment, error) {
	id, ok := parseID(rawID)
	if !ok {
		return domain.Equipment{}, commonerrors.ErrEquipmentNotFound
	}

	var item domain.Equipment
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return domain.Equipment{}, err
	}
	return item, nil
}

func (s *EquipmentService) Create(ctx context.Context, input domain.Input) (domain.Equipment, error) {
	in, err := s.validator.normalize(input)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"sku":    input.SKU,
			"action": "equipment_create_validation_failed",
		}).Warnf("equipment create rejected: %v", err)
		return domain.Equipment{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Equipment{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	item := domain.Equipment{ID: domain.ID(id), CreatedAt: now, UpdatedAt: now}
	item.Apply(in)

	err = s.call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, item)
	})
	if err != nil {
		s.logWriteFailure(ctx, "create", item.SKU, err)
		return domain.Equipment{}, err
	}

	incrementMutations("create")
	s.log.WithFields(ctx, logger.Fields{
		"equipment_id": string(item.ID),
		"sku":          item.SKU,
		"action":       "equipment_created",
	}).Info("equipment created")
	s.publish(feed.EventCreated, item)

	return item, nil
}

// Update replaces the whole record with input and recomputes totalCost.
func (s *EquipmentService) Update(ctx context.Context, rawID string, input domain.Input) (domain.Equipment, error) {
	id, ok := parseID(rawID)
	if !ok {
		return domain.Equipment{}, commonerrors.ErrEquipmentNotFound
	}

	in, err := s.validator.normalize(input)
	if err != nil {
		return domain.Equipment{}, err
	}

	item := domain.Equipment{ID: id, UpdatedAt: s.clock.Now()}
	item.Apply(in)

	var updated domain.Equipment
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.Update(ctx, item)
		return err
	})
	if err != nil {
		s.logWriteFailure(ctx, "update", item.SKU, err)
		return domain.Equipment{}, err
	}

	incrementMutations("update")
	s.log.WithFields(ctx, logger.Fields{
		"equipment_id": string(updated.ID),
		"action":       "equipment_updated",
	}).Info("equipment updated")
	s.publish(feed.EventUpdated, updated)

	return updated, nil
}

// AdjustStatus adds input.Change to one bucket. The other buckets and the
// quantity are left as they are.
func (s *EquipmentService) AdjustStatus(ctx context.Context, rawID string, input AdjustStatusInput) (domain.Equipment, error) {
	id, ok := parseID(rawID)
	if !ok {
		return domain.Equipment{}, commonerrors.ErrEquipmentNotFound
	}

	status, ok := domain.ParseStatus(input.Status)
	if !ok {
		incrementStatusAdjustments("invalid", "invalid_status")
		return domain.Equipment{}, commonerrors.ErrInvalidStatus
	}
	if input.Change == nil {
		incrementStatusAdjustments(string(status), "invalid_input")
		return domain.Equipment{}, commonerrors.ErrInvalidInput.WithMessage("change is required")
	}
	change := *input.Change
	if change < -domain.MaxUnitCount || change > domain.MaxUnitCount {
		incrementStatusAdjustments(string(status), "invalid_input")
		return domain.Equipment{}, commonerrors.ErrInvalidInput.WithMessage("change is out of range")
	}

	var updated domain.Equipment
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.AdjustStatus(ctx, id, status, change, s.clock.Now())
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrNegativeStatusCount):
			incrementStatusAdjustments(string(status), "negative")
		case errors.Is(err, commonerrors.ErrEquipmentNotFound):
			incrementStatusAdjustments(string(status), "not_found")
		default:
			incrementStatusAdjustments(string(status), "error")
		}
		s.log.WithFields(ctx, logger.Fields{
			"equipment_id": string(id),
			"status":       string(status),
			"change":       change,
			"action":       "equipment_status_rejected",
		}).Warnf("status adjustment failed: %v", err)
		return domain.Equipment{}, err
	}

	incrementStatusAdjustments(string(status), "success")
	s.log.WithFields(ctx, logger.Fields{
		"equipment_id": string(id),
		"status":       string(status),
		"change":       change,
		"action":       "equipment_status_adjusted",
	}).Info("equipment status adjusted")
	s.publish(feed.EventStatusAdjusted, updated)

	return updated, nil
}

func (s *EquipmentService) Delete(ctx context.Context, rawID string) (DeleteResult, error) {
	id, ok := parseID(rawID)
	if !ok {
		return DeleteResult{}, commonerrors.ErrEquipmentNotFound
	}

	err := s.call(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return DeleteResult{}, err
	}

	incrementMutations("delete")
	s.log.WithFields(ctx, logger.Fields{
		"equipment_id": string(id),
		"action":       "equipment_deleted",
	}).Info("equipment deleted")
	if s.publisher != nil {
		s.publisher.Publish(feed.Event{Type: feed.EventDeleted, ID: id, At: s.clock.Now()})
	}

	return DeleteResult{Message: constants.DeletedEquipmentNotice}, nil
}

// call runs fn through the breaker. Store sentinels are mapped to domain
// errors inside the breaker so that expected outcomes such as a duplicate sku
// never count as failures; anything left over is a database error.
func (s *EquipmentService) call(ctx context.Context, fn func(context.Context) error) error {
	wrapped := func(ctx context.Context) error {
		return expected(fn(ctx))
	}

	var err error
	if s.breaker == nil {
		err = wrapped(ctx)
	} else {
		err = s.breaker.Call(ctx, wrapped)
	}
	if err != nil && !commonerrors.IsDomainError(err) {
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
	return err
}

func (s *EquipmentService) publish(eventType feed.EventType, item domain.Equipment) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(feed.Event{Type: eventType, ID: item.ID, Equipment: &item, At: s.clock.Now()})
}

func (s *EquipmentService) logWriteFailure(ctx context.Context, operation, sku string, err error) {
	entry := s.log.WithFields(ctx, logger.Fields{
		"sku":    sku,
		"action": "equipment_" + operation + "_failed",
	})
	if commonerrors.IsDomainError(err) && !errors.Is(err, commonerrors.ErrDatabaseError) {
		entry.Warnf("equipment %s rejected: %v", operation, err)
		return
	}
	entry.Errorf("equipment %s failed: %v", operation, err)
}

func expected(err error) error {
	switch {
	case errors.Is(err, equipmentrepo.ErrEquipmentNotFound):
		return commonerrors.ErrEquipmentNotFound
	case errors.Is(err, equipmentrepo.ErrSKUAlreadyExists):
		return commonerrors.ErrSKUTaken
	case errors.Is(err, equipmentrepo.ErrNegativeStatusCount):
		return commonerrors.ErrNegativeStatusCount
	case errors.Is(err, equipmentrepo.ErrValueOutOfRange):
		return commonerrors.ErrInvalidInput.WithMessage("value is out of range")
	default:
		return err
	}
}

func parseID(raw string) (domain.ID, bool) {
	id, ok := commoncrypto.ParseID(raw)
	if !ok {
		return "", false
	}
	return domain.ID(id), true
}
