package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

const (
	uniqueViolationCode   = "23505"
	numericOutOfRangeCode = "22003"
)

// HandleQueryError records the query duration and maps pgx.ErrNoRows to
// notFoundErr. Other errors are counted and wrapped with the operation name.
func HandleQueryError(err error, notFoundErr error, operation, table string, startTime time.Time) error {
	MeasureQueryDuration(operation, table, startTime)

	if err == nil {
		return nil
	}
	if notFoundErr != nil && errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	metrics.DBQueryErrors.WithLabelValues(operation, table, errorType(err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, operation, table string, startTime time.Time) error {
	return HandleQueryError(err, nil, operation, table, startTime)
}

func MeasureQueryDuration(operation, table string, startTime time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}

// UniqueViolation reports whether err is a Postgres unique constraint
// violation and, if so, which constraint fired.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func errorType(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return "pg_" + pgErr.Code
	}
	return fmt.Sprintf("%T", err)
}

// NumericOutOfRange reports whether Postgres rejected a value that does not
// fit its column type.
func NumericOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == numericOutOfRangeCode
}
