// Package session mints and checks the dashboard's own session token, issued
// after an identity-service ID token has been verified.
package session

import (
	"context"
	"time"

	"catalog-admin/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const revokedPrefix = "session:revoked:"

var ErrRevoked = errors.New("session revoked")

// Denylist is the part of the cache the manager needs; nil disables revocation.
type Denylist interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// User is the identity a session stands for.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (c *Claims) User() User {
	return User{UID: c.Subject, Email: c.Email, Name: c.Name}
}

type Manager struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

func NewManager(secret string, ttl time.Duration, denylist Denylist) *Manager {
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(u User) (string, error) {
	now := m.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "could not sign session token")
	}
	return signed, nil
}

// Parse validates signature and expiry and rejects revoked tokens.
func (m *Manager) Parse(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid session token")
	}
	if claims.Subject == "" {
		return nil, errors.New("session token missing subject")
	}

	if m.denylist != nil && claims.ID != "" {
		revoked, err := m.denylist.Exists(ctx, revokedPrefix+claims.ID)
		if err != nil {
			return nil, apperr.Wrap(err, "Failed to verify session")
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Unavailable reports whether Parse failed because the revocation check could
// not be made, as opposed to the token being bad.
func Unavailable(err error) bool {
	var e *apperr.Error
	return errors.As(err, &e) && e.Kind == apperr.Backend
}

// Revoke denylists the token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, c *Claims) error {
	if m.denylist == nil || c == nil || c.ID == "" || c.ExpiresAt == nil {
		return nil
	}
	left := c.ExpiresAt.Time.Sub(m.now())
	if left <= 0 {
		return nil
	}
	return errors.Wrap(m.denylist.Set(ctx, revokedPrefix+c.ID, 1, left), "failed to revoke session")
}
