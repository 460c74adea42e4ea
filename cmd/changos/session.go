package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"changos/internal/auth"
)

// sessionFile is what `changos login` leaves behind for later commands.
type sessionFile struct {
	Username string `toml:"username"`
}

func loadSession(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	var sess sessionFile
	if _, err := toml.DecodeFile(path, &sess); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read session %s: %w", path, err)
	}
	return strings.TrimSpace(sess.Username), nil
}

func saveSession(path string, profile auth.Profile) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("session path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(sessionFile{Username: profile.Username})
}

func clearSession(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
