package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const (
	// DefaultAttempts bounds how often a contended lock is retried.
	DefaultAttempts = 60
	// DefaultRetryInterval is the pause between contended attempts.
	DefaultRetryInterval = time.Second
)

// TimeoutError reports that the retry budget was exhausted without ever
// acquiring the lock.
type TimeoutError struct {
	Path     string
	Attempts int
	Interval time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("lock %s: still held elsewhere after %d attempts over %s",
		e.Path, e.Attempts, time.Duration(e.Attempts-1)*e.Interval)
}

// Guard is an advisory file lock enforcing single-instance execution. It is
// acquired at most once per run and held until the process exits; the
// operating system releases it implicitly if the process dies.
type Guard struct {
	path     string
	fl       *flock.Flock
	attempts int
	interval time.Duration
}

// New builds a guard with the default retry budget (60 attempts, 1s apart).
func New(path string) *Guard {
	return NewWithRetry(path, DefaultAttempts, DefaultRetryInterval)
}

// NewWithRetry builds a guard with an explicit retry budget, used by tests
// and by callers with unusual contention expectations.
func NewWithRetry(path string, attempts int, interval time.Duration) *Guard {
	if attempts < 1 {
		attempts = 1
	}
	return &Guard{path: path, fl: flock.New(path), attempts: attempts, interval: interval}
}

// Acquire takes the lock without blocking, retrying on contention once per
// interval until the attempt budget runs out. Exhaustion yields a
// *TimeoutError; any other acquisition error aborts immediately.
func (g *Guard) Acquire(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		ok, err := g.fl.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", g.path, err)
		}
		if ok {
			return nil
		}
		if attempt >= g.attempts {
			return &TimeoutError{Path: g.path, Attempts: g.attempts, Interval: g.interval}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.interval):
		}
	}
}

// Release unlocks the guard. Safe to call when the lock was never acquired.
func (g *Guard) Release() error {
	return g.fl.Unlock()
}

// Path returns the lock file path.
func (g *Guard) Path() string {
	return g.path
}
