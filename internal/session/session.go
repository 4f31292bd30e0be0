// Package session manages the signed-cookie login sessions that
// identify the current user across requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session token
const CookieName = "lostfound_session"

// sessionPurpose keeps session tokens from validating as confirmation
// tokens and vice versa, even though both are signed with the server secret.
const sessionPurpose = "session"

// revokedKeyPrefix namespaces revocation entries in redis
const revokedKeyPrefix = "session:revoked:"

// ErrInvalidSession covers every failed validation: bad signature,
// expired, revoked, malformed. Callers never learn which.
var ErrInvalidSession = errors.New("invalid session")

type sessionClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Manager issues, validates and revokes login sessions. The redis
// client backs the revocation list for logout; it may be nil, in which
// case logout falls back to clearing the cookie only.
type Manager struct {
	secret []byte
	ttl    time.Duration
	redis  *redis.Client
	now    func() time.Time
}

// NewManager creates a session Manager
func NewManager(secret string, ttl time.Duration, redisClient *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		redis:  redisClient,
		now:    time.Now,
	}
}

// Issue creates a signed session token for the given user
func (m *Manager) Issue(userID uuid.UUID) (string, error) {
	now := m.now()
	claims := sessionClaims{
		Purpose: sessionPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate checks a session token and returns the user it identifies.
// Revoked sessions are rejected; when the revocation list is
// unreachable the session is accepted on signature and expiry alone.
func (m *Manager) Validate(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}

	if m.redis != nil {
		if n, err := m.redis.Exists(ctx, revokedKeyPrefix+claims.ID).Result(); err == nil && n > 0 {
			return uuid.Nil, ErrInvalidSession
		}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}

	return userID, nil
}

// Revoke puts the session on the revocation list until it would have
// expired anyway. With no redis configured this is a no-op; the caller
// still clears the cookie.
func (m *Manager) Revoke(ctx context.Context, tokenStr string) error {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return err
	}

	if m.redis == nil {
		return nil
	}

	remaining := claims.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return nil
	}

	return m.redis.Set(ctx, revokedKeyPrefix+claims.ID, "1", remaining).Err()
}

func (m *Manager) parse(tokenStr string) (*sessionClaims, error) {
	claims := &sessionClaims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))

	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Purpose != sessionPurpose || claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidSession
	}

	return claims, nil
}
