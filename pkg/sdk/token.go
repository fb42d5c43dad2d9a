package opsconsole

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewSessionToken mints an HS256 session token the console accepts. Meant for
// local development and tests; production tokens come from the platform.
func NewSessionToken(secret, subject, issuer string, ttl time.Duration) (string, error) {
	if secret == "" || subject == "" {
		return "", errors.New("opsconsole: secret and subject are required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("opsconsole: sign session token: %w", err)
	}
	return s, nil
}
