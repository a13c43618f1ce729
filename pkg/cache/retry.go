package cache

import (
	"context"
	"errors"
	"time"
)

// Backoff is the retry policy used while connecting to a service that may
// still be starting up, such as Redis or a language service.
type Backoff struct {
	// Attempts is the total number of calls, the first one included.
	Attempts int
	// Delay is the wait after the first failure. It doubles after every
	// further failure, up to MaxDelay when MaxDelay is set.
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultBackoff makes three attempts, waiting one and then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// orDefault fills unset fields from DefaultBackoff.
func (b Backoff) orDefault() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = DefaultBackoff.Attempts
	}
	if b.Delay <= 0 {
		b.Delay = DefaultBackoff.Delay
	}
	return b
}

// Retry calls connect until it succeeds or returns an error not marked with
// Transient. It gives up after b.Attempts calls and returns the last error,
// or ctx's error if ctx ends while waiting. A zero Backoff behaves like
// DefaultBackoff.
func (b Backoff) Retry(ctx context.Context, connect func() error) error {
	b = b.orDefault()
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := connect()
		if err == nil || !IsTransient(err) || attempt >= b.Attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
}

// transientError marks a connection failure worth another attempt.
type transientError struct{ cause error }

func (e transientError) Error() string { return e.cause.Error() }
func (e transientError) Unwrap() error { return e.cause }

// Transient marks err as a failure that Backoff.Retry tries again.
// Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{cause: err}
}

// IsTransient reports whether err, or an error it wraps, was marked with
// Transient.
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}
