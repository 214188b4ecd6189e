package application

import (
	"errors"

	"github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/metrics"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrStorageDisabled    = errors.New("avatar storage not configured")
	// ErrConflict means a read-modify-write kept losing the version race.
	ErrConflict = errors.New("concurrent modification, try again")
)

const maxAttempts = 3

// withVersionRetry re-runs op while it reports a stale version. op must
// re-read the aggregate itself so each attempt applies to fresh state.
func withVersionRetry(m *metrics.Metrics, aggregate string, op func() error) error {
	for attempt := 1; ; attempt++ {
		err := op()
		if !errors.Is(err, repository.ErrStaleVersion) {
			return err
		}
		if attempt == maxAttempts {
			return ErrConflict
		}
		m.IncrementVersionRetries(aggregate)
	}
}
