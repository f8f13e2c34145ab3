package http

const (
	CodeInternalError   = "INTERNAL_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeRateLimited     = "RATE_LIMITED"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
)
