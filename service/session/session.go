package session

import (
	"context"
	"fmt"
	"time"

	"dsc/core"

	"github.com/golang-jwt/jwt"
)

// Session issues and verifies HS256 access tokens whose subject is the account
type Session struct {
	secret []byte
	now    func() time.Time
}

// New new session signing with secret. An empty secret refuses every login.
func New(secret string) *Session {
	return &Session{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue access token for account, ttl <= 0 never expires
func (s *Session) Issue(account string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: session secret not configured", core.ErrUnauthorized)
	}

	if account == "" {
		return "", core.ErrZeroAccount
	}

	now := s.now()
	claims := jwt.StandardClaims{
		Subject:  account,
		IssuedAt: now.Unix(),
	}

	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Login resolves accessToken to its account
func (s *Session) Login(ctx context.Context, accessToken string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: session secret not configured", core.ErrUnauthorized)
	}

	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(accessToken, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrUnauthorized, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", core.ErrUnauthorized
	}

	return claims.Subject, nil
}
