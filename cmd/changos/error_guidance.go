package main

import (
	"context"
	"errors"
	"net"

	"changos/internal/api"
	"changos/internal/board"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	switch {
	case errors.Is(err, board.ErrNotLoggedIn):
		lines = append(lines, "hint: log in first with: changos login <username>")
		return uniqueLines(lines)
	case errors.Is(err, board.ErrNotOwner):
		lines = append(lines, "hint: only the task's dev can change it; check `changos whoami`.")
		return uniqueLines(lines)
	case errors.Is(err, board.ErrInvalidCredentials):
		lines = append(lines, "hint: profiles and password hashes live in ~/.changos.toml; create a hash with: changos hash-password")
		return uniqueLines(lines)
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		notFound := api.IsNotFound(err)
		if notFound {
			lines = append(lines, "hint: the task may have been deleted; run `changos list` to refresh.")
		}
		if apiErr.Code == "" && !notFound {
			lines = append(lines, "hint: verify CHANGOS_API_URL points to a changos task store.")
		}
		if apiErr.Status >= 500 {
			lines = append(lines, "hint: the task store returned an internal error; check its logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check the task store or increase CHANGOS_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure the task store at CHANGOS_API_URL is reachable.",
			"hint: run a local store with: changos srv",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
