package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every access-token failure: bad signature,
// structural corruption, missing claims, and expiry. Callers must not be
// able to tell which check failed.
var ErrInvalidToken = errors.New("invalid token")

// AccessTokenTTL is the fixed lifetime of issued access tokens.
const AccessTokenTTL = 30 * time.Minute

type Claims struct {
	TenantID uint64 `json:"tenant_id"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim. The subject carries the user id as a
// decimal string, matching the wire format of the tokens this replaces.
func (c *Claims) UserID() (uint64, error) {
	if c.Subject == "" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TokenService mints and verifies signed access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    AccessTokenTTL,
	}
}

// NewTokenServiceWithTTL is used by tests that need to exercise expiry.
func NewTokenServiceWithTTL(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateAccessToken issues a signed token for the given principal.
func (s *TokenService) GenerateAccessToken(userID, tenantID uint64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateAccessToken verifies the signature and expiry and requires both
// the subject and tenant claims to be present.
func (s *TokenService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.TenantID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
