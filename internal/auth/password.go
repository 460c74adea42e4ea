// Package auth matches submitted credentials against the configured board
// profiles. It is a convenience login for the board, not an authentication
// system: the task store never sees these credentials.
package auth

import (
	"crypto/subtle"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 32
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9._-]*[a-z0-9])?$`)

// Profile is one known board user.
type Profile struct {
	Username     string `toml:"username" json:"username" yaml:"username"`
	Password     string `toml:"password,omitempty" json:"-" yaml:"-"`
	PasswordHash string `toml:"password_hash,omitempty" json:"-" yaml:"-"`
	Avatar       string `toml:"avatar,omitempty" json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// NormalizeUsername returns canonical lowercase username and validates allowed characters.
func NormalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(strings.ToLower(raw))
	if username == "" {
		return "", fmt.Errorf("username is required")
	}
	if len(username) > maxUsernameLength {
		return "", fmt.Errorf("username too long")
	}
	if !usernamePattern.MatchString(username) {
		return "", fmt.Errorf("invalid username")
	}
	return username, nil
}

// ValidatePassword checks minimal password requirements.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// HashPassword hashes one plaintext password for the config file.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword verifies plaintext password against a bcrypt hash.
func VerifyPassword(passwordHash, candidate string) bool {
	if strings.TrimSpace(passwordHash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(candidate)) == nil
}

// Verify checks a candidate password against the profile. The hash wins
// when both forms are configured; a profile without either never matches.
func (p Profile) Verify(candidate string) bool {
	if p.PasswordHash != "" {
		return VerifyPassword(p.PasswordHash, candidate)
	}
	if p.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.Password), []byte(candidate)) == 1
}

// Match returns the profile whose username and password match.
func Match(profiles []Profile, username, password string) (Profile, bool) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return Profile{}, false
	}
	for _, p := range profiles {
		if !strings.EqualFold(strings.TrimSpace(p.Username), name) {
			continue
		}
		if p.Verify(password) {
			return p, true
		}
		return Profile{}, false
	}
	return Profile{}, false
}

// Find returns the profile registered under username.
func Find(profiles []Profile, username string) (Profile, bool) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return Profile{}, false
	}
	for _, p := range profiles {
		if strings.EqualFold(strings.TrimSpace(p.Username), name) {
			return p, true
		}
	}
	return Profile{}, false
}
