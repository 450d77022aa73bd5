package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AccessClaims struct {
	jwt.RegisteredClaims
}

// Issuer mints and validates the short-lived access tokens. It is stateless:
// validation needs only the public key, so any replica can check a token
// without coordination.
type Issuer interface {
	Generate(userID uuid.UUID) (token string, exp time.Time, err error)
	Validate(token string) (AccessClaims, error)
}
