package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vmorozov/customer-hub/internal/common/clock"
	"github.com/vmorozov/customer-hub/internal/common/jwtverify"
	"github.com/vmorozov/customer-hub/internal/observability/metrics"
)

// TokenIssuer mints stateless HS256 bearer tokens. There is no refresh or
// rotation: an expired token simply fails verification.
type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	tokenTTL  time.Duration
}

func NewTokenIssuer(jwtSecret string, tokenTTL time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clock,
		tokenTTL:  tokenTTL,
	}
}

func (ti *TokenIssuer) Issue(userID string) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ti.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return tokenString, nil
}

func (ti *TokenIssuer) Verify(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
