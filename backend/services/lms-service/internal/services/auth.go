package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs login tokens.
type TokenIssuer interface {
	Issue(claims jwt.MapClaims, ttl time.Duration) (string, error)
}
