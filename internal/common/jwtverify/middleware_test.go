package jwtverify

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gnr-surgicals/inventory/internal/common/clock"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerifier_Verify(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	v := NewVerifier(testSecret, clock.NewMockClock(now))

	valid := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub": "acc-1", "usr": "gnrr", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Username != "gnrr" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), jwt.MapClaims{
			"sub": "acc-1", "usr": "gnrr", "exp": now.Add(time.Hour).Unix(),
		})},
		{"wrong alg", sign(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{
			"sub": "acc-1", "usr": "gnrr", "exp": now.Add(time.Hour).Unix(),
		})},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "acc-1", "usr": "gnrr", "exp": now.Add(-time.Minute).Unix(),
		})},
		{"no exp", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "acc-1", "usr": "gnrr",
		})},
		{"missing usr", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "acc-1", "exp": now.Add(time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			if !errors.Is(err, commonerrors.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	now := time.Now()
	v := NewVerifier(testSecret, clock.NewMockClock(now))
	log := logger.NewWriter(io.Discard, "test", "ERROR")

	var got Claims
	h := v.Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub": "acc-9", "usr": "nurse", "exp": now.Add(time.Hour).Unix(),
	})

	tests := []struct {
		name     string
		header   string
		status   int
		wantCode string
	}{
		{"missing header", "", http.StatusUnauthorized, "MISSING_AUTHORIZATION"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"valid", "Bearer " + token, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/equipment", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.wantCode != "" {
				var env struct {
					Code string `json:"code"`
				}
				_ = json.NewDecoder(rec.Body).Decode(&env)
				if env.Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, env.Code)
				}
			}
		})
	}

	if got.AccountID != "acc-9" || got.Username != "nurse" {
		t.Errorf("claims not attached to context: %+v", got)
	}
}
