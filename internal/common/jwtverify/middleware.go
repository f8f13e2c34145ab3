package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gnr-surgicals/inventory/internal/common/clock"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	commonhttp "github.com/gnr-surgicals/inventory/internal/common/http"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

// Claims is the identity carried by an access token.
type Claims struct {
	AccountID string
	Username  string
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

const bearerPrefix = "Bearer "

type Verifier struct {
	secret []byte
	clock  clock.Clock
}

func NewVerifier(secret string, c clock.Clock) *Verifier {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &Verifier{secret: []byte(secret), clock: c}
}

// Verify checks signature, algorithm, expiry and the sub/usr claims.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := v.parse(tokenString)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	return claims, nil
}

func (v *Verifier) parse(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)
	if sub == "" || username == "" {
		return Claims{}, errors.New("missing sub or usr claims")
	}

	return Claims{
		AccountID: sub,
		Username:  username,
	}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func (v *Verifier) Middleware(log *logger.Logger) func(next http.Handler) http.Handler {
	errorHandler := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				errorHandler.HandleError(w, r, commonerrors.ErrMissingAuthorization)
				return
			}
			if !strings.HasPrefix(raw, bearerPrefix) {
				errorHandler.HandleError(w, r, commonerrors.ErrInvalidToken.WithMessage("authorization header must use the Bearer scheme"))
				return
			}

			claims, err := v.Verify(strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix)))
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_verify",
					"path":   r.URL.Path,
				}).Warnf("jwt auth failed: %v", err)
				errorHandler.HandleError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}
