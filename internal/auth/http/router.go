package http

import (
	"context"
	"net/http"

	"github.com/gnr-surgicals/inventory/internal/auth/service"
	commonhttp "github.com/gnr-surgicals/inventory/internal/common/http"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
)

const (
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
)

type Authenticator interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Handler struct {
	auth         Authenticator
	log          *logger.Logger
	errorHandler *commonhttp.ErrorHandler
}

func NewHandler(auth Authenticator, log *logger.Logger) *Handler {
	return &Handler{
		auth:         auth,
		log:          log,
		errorHandler: commonhttp.NewErrorHandler(log),
	}
}

// Routes mounts the credential endpoints on mux. When limiter is non-nil each
// endpoint gets its own bucket.
func (h *Handler) Routes(mux *http.ServeMux, limiter *commonhttp.StrictRateLimiter) {
	mux.Handle("POST "+registerPath, limit(limiter, registerPath, http.HandlerFunc(h.register)))
	mux.Handle("POST "+loginPath, limit(limiter, loginPath, http.HandlerFunc(h.login)))
}

func limit(limiter *commonhttp.StrictRateLimiter, path string, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return limiter.MiddlewareForPath(path)(next)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_invalid_json",
		}).Warnf("register failed: %v", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: %v", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, result)
}
