package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeJWTUnverified reads claims without checking the signature. The
// backend owns the signing key; the client only needs the claims.
func DecodeJWTUnverified(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// TokenExpiry returns the exp claim of token. ok is false for opaque tokens.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims, err := DecodeJWTUnverified(token)
	if err != nil {
		return time.Time{}, false
	}

	numeric, err := claims.GetExpirationTime()
	if err != nil || numeric == nil {
		return time.Time{}, false
	}

	return numeric.Time, true
}

// ExpiresWithin reports whether token expires before now+skew.
func ExpiresWithin(token string, skew time.Duration, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}

	return !exp.After(now.Add(skew))
}
