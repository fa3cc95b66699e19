package client

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSlot owns the ticket-holder session token. It is set on login and
// cleared on logout, on a 401 or once the token's exp claim has passed.
type TokenSlot struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

func NewTokenSlot() *TokenSlot {
	return &TokenSlot{now: time.Now}
}

func (s *TokenSlot) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenSlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Get returns the current token, clearing it first if it has expired.
func (s *TokenSlot) Get() (string, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return "", false
	}
	if expired(token, s.now()) {
		s.mu.Lock()
		if s.token == token {
			s.token = ""
		}
		s.mu.Unlock()
		return "", false
	}
	return token, true
}

// expired reads the exp claim without verifying the signature; the BFF is
// the one that verifies. Opaque tokens and tokens without exp never expire here.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
