package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/wardbook/records/config"
	internalErrs "github.com/wardbook/records/errors"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	tokenIssuer       = "hospital-records"
)

// ConfigError is returned when the server is missing settings required for authentication
type ConfigError struct {
	Setting string
}

func (c *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured", c.Setting)
}

func (c *ConfigError) Unwrap() error {
	return internalErrs.InternalServerError
}

type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) UserId() string {
	return c.Subject
}

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// TokenManager issues and verifies HS256 signed session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ TokenVerifier = &TokenManager{}

func NewTokenManager(cfg *config.Config) *TokenManager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenManager{
		secret: []byte(cfg.SessionSecret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

func (t *TokenManager) Issue(userId string) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, &ConfigError{Setting: "HOSPITAL_SESSION_SECRET"}
	}

	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("unable to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

func (t *TokenManager) Verify(token string) (*Claims, error) {
	if len(t.secret) == 0 {
		return nil, &ConfigError{Setting: "HOSPITAL_SESSION_SECRET"}
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.Subject == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
