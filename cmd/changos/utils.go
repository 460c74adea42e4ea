package main

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

func splitCommaList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// readSecret returns the first line of r without its line ending.
func readSecret(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("password is required")
	}
	secret := strings.TrimRight(scanner.Text(), "\r")
	if secret == "" {
		return "", errors.New("password is required")
	}
	return secret, nil
}
