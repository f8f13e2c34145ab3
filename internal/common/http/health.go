package http

import (
	"net/http"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
)

type HealthResponse struct {
	Status string `json:"status"`
	Env    string `json:"env"`
}

func HealthHandler(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{Status: "OK", Env: env})
	}
}

// RootHandler answers only the exact "/" path; everything else that reaches
// it is an unknown route.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			WriteErrorEnvelope(w, http.StatusNotFound, CodeNotFound, "route not found", nil, TraceIDFromContext(r.Context()))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(constants.RootBanner))
	}
}
