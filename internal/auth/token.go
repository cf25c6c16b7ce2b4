package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, malformed and wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid access token")

// TokenClaims carries the authenticated user id in access tokens.
type TokenClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager issues and parses HS256 access tokens. The user id inside is
// opaque to everything downstream.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a TokenManager with the given signing secret and
// token lifetime.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

// Issue signs an access token for the given user id.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the user id it carries.
func (m *TokenManager) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
