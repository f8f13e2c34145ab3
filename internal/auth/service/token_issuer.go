package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gnr-surgicals/inventory/internal/account/domain"
	"github.com/gnr-surgicals/inventory/internal/common/clock"
	"github.com/gnr-surgicals/inventory/internal/common/jwtverify"
)

type TokenSigner interface {
	Issue(account domain.Account) (string, error)
}

// TokenIssuer signs HS256 access tokens carrying sub (account id) and usr
// (username).
type TokenIssuer struct {
	jwtSecret      []byte
	clock          clock.Clock
	accessTokenTTL time.Duration
	verifier       *jwtverify.Verifier
}

func NewTokenIssuer(jwtSecret string, accessTokenTTL time.Duration, c clock.Clock) *TokenIssuer {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		clock:          c,
		accessTokenTTL: accessTokenTTL,
		verifier:       jwtverify.NewVerifier(jwtSecret, c),
	}
}

func (ti *TokenIssuer) Issue(account domain.Account) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(account.ID),
		"usr": account.Username,
		"iat": now.Unix(),
		"exp": now.Add(ti.accessTokenTTL).Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}

func (ti *TokenIssuer) Verifier() *jwtverify.Verifier {
	return ti.verifier
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return ti.verifier.Verify(tokenString)
}
