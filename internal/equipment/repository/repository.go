package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/gnr-surgicals/inventory/internal/common/db"
	"github.com/gnr-surgicals/inventory/internal/equipment/domain"
)

const table = "equipment"

var (
	ErrEquipmentNotFound   = errors.New("equipment not found")
	ErrSKUAlreadyExists    = errors.New("sku already exists")
	ErrNegativeStatusCount = errors.New("status count would drop below zero")
	ErrValueOutOfRange     = errors.New("value out of range for column")
)

type Repository interface {
	List(ctx context.Context, category, search string) ([]domain.Equipment, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Equipment, error)
	ListAll(ctx context.Context) ([]domain.Equipment, error)
	Get(ctx context.Context, id domain.ID) (domain.Equipment, error)
	Create(ctx context.Context, e domain.Equipment) error
	Update(ctx context.Context, e domain.Equipment) (domain.Equipment, error)
	AdjustStatus(ctx context.Context, id domain.ID, status domain.Status, change int, at time.Time) (domain.Equipment, error)
	Delete(ctx context.Context, id domain.ID) error
	DeleteAll(ctx context.Context) (int64, error)
}

const selectColumns = `id, name, sku, category, quantity, cost_per_unit, total_cost,
	available, in_use, maintenance, location, notes, created_at, updated_at`

// statusColumns whitelists the bucket columns that may be interpolated into
// the adjustment statement.
var statusColumns = map[domain.Status]string{
	domain.StatusAvailable:   "available",
	domain.StatusInUse:       "in_use",
	domain.StatusMaintenance: "maintenance",
}

type PgRepository struct {
	q db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{q: q}
}

// List filters by exact category and by a case-insensitive substring of
// name, sku or location. Newest records come first.
func (r *PgRepository) List(ctx context.Context, category, search string) ([]domain.Equipment, error) {
	var (
		where []string
		args  []interface{}
	)

	if category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			`(name ILIKE $%[1]d ESCAPE '\' OR sku ILIKE $%[1]d ESCAPE '\' OR location ILIKE $%[1]d ESCAPE '\')`, n))
	}

	query := `SELECT ` + selectColumns + ` FROM equipment`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	return r.query(ctx, "list equipment", query, args...)
}

// ListByCategory returns a category's records in creation order.
func (r *PgRepository) ListByCategory(ctx context.Context, category string) ([]domain.Equipment, error) {
	return r.query(ctx, "list equipment by category",
		`SELECT `+selectColumns+` FROM equipment WHERE category = $1 ORDER BY created_at ASC, id`,
		category,
	)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]domain.Equipment, error) {
	return r.query(ctx, "list all equipment",
		`SELECT `+selectColumns+` FROM equipment ORDER BY created_at ASC, id`,
	)
}

func (r *PgRepository) Get(ctx context.Context, id domain.ID) (domain.Equipment, error) {
	start := time.Now()
	row := r.q.QueryRow(ctx, `SELECT `+selectColumns+` FROM equipment WHERE id = $1`, string(id))

	e, err := scanEquipment(row)
	if err := db.HandleQueryError(err, ErrEquipmentNotFound, "get equipment", table, start); err != nil {
		return domain.Equipment{}, err
	}
	return e, nil
}

func (r *PgRepository) Create(ctx context.Context, e domain.Equipment) error {
	start := time.Now()
	_, err := r.q.Exec(
		ctx,
		`INSERT INTO equipment (id, name, sku, category, quantity, cost_per_unit, total_cost,
			available, in_use, maintenance, location, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		string(e.ID),
		e.Name,
		e.SKU,
		e.Category,
		e.Quantity,
		e.CostPerUnit,
		e.TotalCost,
		e.StatusCounts.Available,
		e.StatusCounts.InUse,
		e.StatusCounts.Maintenance,
		e.Location,
		e.Notes,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if _, dup := db.UniqueViolation(err); dup {
		db.MeasureQueryDuration("create equipment", table, start)
		return ErrSKUAlreadyExists
	}
	if db.NumericOutOfRange(err) {
		db.MeasureQueryDuration("create equipment", table, start)
		return ErrValueOutOfRange
	}
	return db.HandleExecError(err, "create equipment", table, start)
}

// Update replaces every client editable column of the record.
func (r *PgRepository) Update(ctx context.Context, e domain.Equipment) (domain.Equipment, error) {
	start := time.Now()
	row := r.q.QueryRow(
		ctx,
		`UPDATE equipment SET
			name = $2, sku = $3, category = $4, quantity = $5, cost_per_unit = $6, total_cost = $7,
			available = $8, in_use = $9, maintenance = $10, location = $11, notes = $12, updated_at = $13
		 WHERE id = $1
		 RETURNING `+selectColumns,
		string(e.ID),
		e.Name,
		e.SKU,
		e.Category,
		e.Quantity,
		e.CostPerUnit,
		e.TotalCost,
		e.StatusCounts.Available,
		e.StatusCounts.InUse,
		e.StatusCounts.Maintenance,
		e.Location,
		e.Notes,
		e.UpdatedAt,
	)

	updated, err := scanEquipment(row)
	if _, dup := db.UniqueViolation(err); dup {
		db.MeasureQueryDuration("update equipment", table, start)
		return domain.Equipment{}, ErrSKUAlreadyExists
	}
	if db.NumericOutOfRange(err) {
		db.MeasureQueryDuration("update equipment", table, start)
		return domain.Equipment{}, ErrValueOutOfRange
	}
	if err := db.HandleQueryError(err, ErrEquipmentNotFound, "update equipment", table, start); err != nil {
		return domain.Equipment{}, err
	}
	return updated, nil
}

// AdjustStatus adds change to one bucket in a single statement that refuses
// to take the bucket below zero.
func (r *PgRepository) AdjustStatus(ctx context.Context, id domain.ID, status domain.Status, change int, at time.Time) (domain.Equipment, error) {
	column, ok := statusColumns[status]
	if !ok {
		return domain.Equipment{}, fmt.Errorf("unknown status bucket %q", status)
	}

	start := time.Now()
	row := r.q.QueryRow(
		ctx,
		`UPDATE equipment SET `+column+` = `+column+` + $2, updated_at = $3
		 WHERE id = $1 AND `+column+` + $2 >= 0
		 RETURNING `+selectColumns,
		string(id),
		change,
		at,
	)

	updated, err := scanEquipment(row)
	if err == nil {
		db.MeasureQueryDuration("adjust equipment status", table, start)
		return updated, nil
	}
	if db.NumericOutOfRange(err) {
		db.MeasureQueryDuration("adjust equipment status", table, start)
		return domain.Equipment{}, ErrValueOutOfRange
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Equipment{}, db.HandleQueryError(err, nil, "adjust equipment status", table, start)
	}
	db.MeasureQueryDuration("adjust equipment status", table, start)

	if _, err := r.Get(ctx, id); err != nil {
		return domain.Equipment{}, err
	}
	return domain.Equipment{}, ErrNegativeStatusCount
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.q.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, string(id))
	if err := db.HandleExecError(err, "delete equipment", table, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

func (r *PgRepository) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	tag, err := r.q.Exec(ctx, `DELETE FROM equipment`)
	if err := db.HandleExecError(err, "delete all equipment", table, start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) query(ctx context.Context, operation, sql string, args ...interface{}) ([]domain.Equipment, error) {
	start := time.Now()
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, operation, table, start)
	}
	defer rows.Close()

	items := make([]domain.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, db.HandleQueryError(err, nil, operation, table, start)
		}
		items = append(items, e)
	}

	if err := db.HandleQueryError(rows.Err(), nil, operation, table, start); err != nil {
		return nil, err
	}
	return items, nil
}

func scanEquipment(row pgx.Row) (domain.Equipment, error) {
	var e domain.Equipment
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.SKU,
		&e.Category,
		&e.Quantity,
		&e.CostPerUnit,
		&e.TotalCost,
		&e.StatusCounts.Available,
		&e.StatusCounts.InUse,
		&e.StatusCounts.Maintenance,
		&e.Location,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
