// Package auth verifies JWT bearer tokens against a pre-shared symmetric key
// and configured issuer/audience strings. Token issuance happens outside the
// service; GenerateToken exists for tests and local development.
package auth

import (
	"errors"
	"time"

	"github.com/avetrov/filedrop/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by filedrop tokens. Only the registered claims are used;
// Subject identifies the caller but the service does not act on it beyond
// logging.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken mints an HS256-signed token with the given subject, issuer,
// audience, and validity window.
func GenerateToken(subject string, secretKey []byte, issuer, audience string, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken checks the token's signature, issuer, audience, and expiry.
// An expiry claim is mandatory. Failures map to common.ErrTokenExpired or
// common.ErrInvalidToken so callers never see parser internals.
func ValidateToken(tokenString string, secretKey []byte, issuer, audience string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
