package admintoken

import (
	"errors"
	"fmt"
	"time"

	"cnapi/internal/core"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrMissingSecret = errors.New("admin token secret is not configured")
	ErrNotAdmin      = errors.New("token does not carry the admin role")
)

// Sign 簽發 HS256 管理者 token
func Sign(secret, subject string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	expiresAt := now.Add(ttl)
	claims := core.AdminClaims{
		Role: core.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse 驗證簽章、期限與角色
func Parse(secret, token string) (*core.AdminClaims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	claims := &core.AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != core.AdminRole {
		return nil, ErrNotAdmin
	}
	return claims, nil
}
