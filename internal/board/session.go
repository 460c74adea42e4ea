package board

import (
	"errors"
	"strings"
	"sync"

	"changos/internal/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("login required")
	ErrNotOwner           = errors.New("task belongs to another developer")
)

// Session tracks the logged-in profile. The zero value is logged out.
//
// Ownership checks made through a Session are advisory: they gate what this
// client offers, and the task store does not enforce them. Profiles live in
// local config, so this is not an authentication system.
type Session struct {
	profiles []auth.Profile

	mu      sync.Mutex
	current auth.Profile
	active  bool
}

// NewSession returns a logged-out session over the configured profiles.
func NewSession(profiles []auth.Profile) *Session {
	return &Session{profiles: append([]auth.Profile(nil), profiles...)}
}

// Login switches to the matching profile. On mismatch nothing changes.
func (s *Session) Login(username, password string) (auth.Profile, error) {
	profile, ok := auth.Match(s.profiles, username, password)
	if !ok {
		return auth.Profile{}, ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = profile
	s.active = true
	return profile, nil
}

// Restore resumes a session for a known username without a password. The
// CLI uses it with the persisted session file.
func (s *Session) Restore(username string) bool {
	profile, ok := auth.Find(s.profiles, username)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = profile
	s.active = true
	return true
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = auth.Profile{}
	s.active = false
}

// Current returns the logged-in profile.
func (s *Session) Current() (auth.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.active
}

// CanModify reports whether the current user may edit or delete a record
// assigned to dev.
func (s *Session) CanModify(dev string) error {
	profile, ok := s.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if !strings.EqualFold(strings.TrimSpace(profile.Username), strings.TrimSpace(dev)) {
		return ErrNotOwner
	}
	return nil
}
