package jwt

import (
	"crypto/rsa"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/config"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

type issuerImpl struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	accessTTL  time.Duration
	issuer     string
	audience   string
	now        func() time.Time
}

func NewIssuer(cfg *config.Config) (*issuerImpl, error) {
	privPem, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "read private key")
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPem)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "parse private key")
	}

	pubPem, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "read public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "parse public key")
	}

	return &issuerImpl{
		privateKey: privKey,
		publicKey:  pubKey,
		accessTTL:  cfg.AccessTokenTTL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		now:        time.Now,
	}, nil
}

func (i *issuerImpl) Generate(userID uuid.UUID) (string, time.Time, error) {
	now := i.now()

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.privateKey)
	if err != nil {
		return "", time.Time{}, apperrors.WrapInternal(err, "sign access token")
	}
	return signed, claims.ExpiresAt.Time, nil
}

func (i *issuerImpl) Validate(raw string) (AccessClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, apperrors.ErrInvalidToken
		}
		return i.publicKey, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return AccessClaims{}, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return AccessClaims{}, apperrors.ErrInvalidToken
	}
	return *claims, nil
}
