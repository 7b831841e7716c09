package jwtverify

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity a verified bearer token asserts.
type Claims struct {
	UserID   string
	IssuedAt time.Time
	Expiry   time.Time
}

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidClaims        = errors.New("invalid token claims")
	ErrMissingSubject       = errors.New("missing sub claim")
)

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSigningMethod
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidClaims
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, ErrMissingSubject
	}

	claims := Claims{UserID: sub}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.Expiry = exp.Time
	}

	return claims, nil
}
