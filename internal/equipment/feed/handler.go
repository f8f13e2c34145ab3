package feed

import (
	"net/http"
	"strings"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	commonhttp "github.com/gnr-surgicals/inventory/internal/common/http"
	"github.com/gnr-surgicals/inventory/internal/common/jwtverify"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
)

type TokenVerifier interface {
	Verify(token string) (jwtverify.Claims, error)
}

type Handler struct {
	hub          *Hub
	verifier     TokenVerifier
	upgrader     gorillaWS.Upgrader
	log          *logger.Logger
	errorHandler *commonhttp.ErrorHandler
}

// NewHandler serves the feed upgrade endpoint. Browsers cannot set headers on
// a WebSocket handshake, so the token is also accepted as ?token=.
func NewHandler(hub *Hub, verifier TokenVerifier, allowedOrigins []string, log *logger.Logger) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Handler{
		hub:      hub,
		verifier: verifier,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				host := r.Host
				return origin == "http://"+host || origin == "https://"+host
			},
		},
		log:          log,
		errorHandler: commonhttp.NewErrorHandler(log),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	}
	if token == "" {
		h.errorHandler.HandleError(w, r, commonerrors.ErrMissingAuthorization)
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "feed_auth_failed",
		}).Warnf("feed auth failed: %v", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"account_id": claims.AccountID,
			"action":     "feed_upgrade_failed",
		}).Warnf("feed upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, claims.AccountID, claims.Username, h.log)
	if !h.hub.Register(client) {
		conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	client.Start()
}
