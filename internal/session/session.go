// Package session resolves the active user identity from a signed
// session token. Every write path asks the session for the current
// user first; without one the write is rejected before any request or
// store mutation happens.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moyim-dev/moyim/shared/domain"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

type Session struct {
	secretKey string

	mu   sync.RWMutex
	user *domain.UserSummary
	exp  time.Time
}

func New(secretKey string) *Session {
	return &Session{secretKey: secretKey}
}

// SignIn decodes and verifies a session token minted by the backend and
// installs the identity it carries.
func (s *Session) SignIn(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid session token claims")
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		return fmt.Errorf("session token carries no user id")
	}
	name, _ := claims["name"].(string)
	avatar, _ := claims["avatar_url"].(string)
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}

	var exp time.Time
	if expClaim, err := claims.GetExpirationTime(); err == nil && expClaim != nil {
		exp = expClaim.Time
	}

	s.mu.Lock()
	s.user = &domain.UserSummary{Id: uid, Name: name, AvatarUrl: avatar}
	s.exp = exp
	s.mu.Unlock()
	return nil
}

// SignOut drops the identity. Caches keyed on it must be invalidated by
// the caller.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	s.exp = time.Time{}
	s.mu.Unlock()
}

// Current returns the active identity or ErrAuthRequired when there is
// none (or the token expired).
func (s *Session) Current() (domain.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.UserSummary{}, internal_errors.ErrAuthRequired
	}
	if !s.exp.IsZero() && time.Now().After(s.exp) {
		return domain.UserSummary{}, internal_errors.ErrAuthRequired
	}
	return *s.user, nil
}
