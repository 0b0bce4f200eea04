// Package state holds the in-process session context of the CLI:
// the authenticated user as the server resolved it at boot time.
package state

import (
	"errors"
	"sync"
)

// User is the session identity returned by the gateway.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	IsAdmin        bool   `json:"isAdmin"`
	DisablePremium bool   `json:"disablePremium"`
	CreatedAt      string `json:"createdAt"`
}

// Session is a set-once bag for the booted user.
type Session struct {
	mu   sync.RWMutex
	user *User
}

// ErrAlreadyBooted is returned when Init is called twice on one Session.
var ErrAlreadyBooted = errors.New("session already initialized")

// Init stores the booted user. A second call is an error: the session
// identity never changes without a fresh boot.
func (s *Session) Init(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		return ErrAlreadyBooted
	}
	cp := u
	s.user = &cp
	return nil
}

// Current returns a copy of the booted user, or ok=false before boot.
func (s *Session) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}
