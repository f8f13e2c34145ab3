package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	TraceID() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithMessage(message string) DomainError
	WithTraceID(traceID string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	traceID  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) TraceID() string {
	return e.traceID
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches on code so that errors.Is works for copies produced by the
// With* helpers.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *domainError) clone() *domainError {
	c := *e
	return &c
}

func (e *domainError) WithCause(cause error) DomainError {
	c := e.clone()
	c.cause = cause
	return c
}

func (e *domainError) WithMessage(message string) DomainError {
	c := e.clone()
	c.message = message
	return c
}

func (e *domainError) WithTraceID(traceID string) DomainError {
	c := e.clone()
	c.traceID = traceID
	return c
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredConfig = NewDomainError(
		"MISSING_REQUIRED_CONFIG",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required configuration value",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"jwt_secret must be at least 32 bytes",
	)

	ErrInvalidInput = NewDomainError(
		"INVALID_INPUT",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid input",
	)

	ErrValidationFailed = NewDomainError(
		"VALIDATION_FAILED",
		CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrInvalidJSON = NewDomainError(
		"INVALID_JSON",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid JSON body",
	)

	ErrInvalidStatus = NewDomainError(
		"INVALID_STATUS",
		CategoryValidation,
		http.StatusBadRequest,
		"status must be one of available, in_use, maintenance",
	)

	ErrNegativeStatusCount = NewDomainError(
		"NEGATIVE_STATUS_COUNT",
		CategoryValidation,
		http.StatusBadRequest,
		"status count cannot be negative",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryAuth,
		http.StatusBadRequest,
		"invalid credentials",
	)

	ErrMissingAuthorization = NewDomainError(
		"MISSING_AUTHORIZATION",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"authorization token required",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is not valid",
	)

	ErrEquipmentNotFound = NewDomainError(
		"EQUIPMENT_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"equipment not found",
	)

	ErrCategoryNotFound = NewDomainError(
		"CATEGORY_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"category not found",
	)

	ErrUsernameTaken = NewDomainError(
		"USERNAME_TAKEN",
		CategoryConflict,
		http.StatusBadRequest,
		"username already exists",
	)

	ErrSKUTaken = NewDomainError(
		"SKU_TAKEN",
		CategoryConflict,
		http.StatusBadRequest,
		"sku already exists",
	)

	ErrCORSBlocked = NewDomainError(
		"CORS_BLOCKED",
		CategoryForbidden,
		http.StatusForbidden,
		"CORS blocked",
	)

	ErrCircuitOpen = NewDomainError(
		"SERVICE_UNAVAILABLE",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)

	ErrDatabaseError = NewDomainError(
		"DB_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"database operation failed",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
