package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	idLength      = 24
	idMaxAttempts = 20
)

// GenerateID returns a new 24-character hex task id, the shape the remote
// store hands out. It retries on collisions using the provided exists function.
func GenerateID(exists func(string) (bool, error)) (string, error) {
	for i := 0; i < idMaxAttempts; i++ {
		id, err := randomID()
		if err != nil {
			return "", err
		}
		if exists == nil {
			return id, nil
		}
		ok, err := exists(id)
		if err != nil {
			return "", err
		}
		if !ok {
			return id, nil
		}
	}

	return "", fmt.Errorf("unable to generate unique id")
}

func randomID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(u.String(), "-", "")[:idLength], nil
}
