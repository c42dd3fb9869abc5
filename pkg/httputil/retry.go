package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// TransientError marks a failure worth another attempt. After, when set,
// is the delay the server asked for (Retry-After).
type TransientError struct {
	Err   error
	After time.Duration
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a [TransientError]. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err, or anything it wraps, is a [TransientError].
func IsTransient(err error) bool {
	return errors.As(err, new(*TransientError))
}

// Policy bounds how a registry request is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first. Values
	// below 1 are treated as 1.
	Attempts int
	// Delay is the wait before the second attempt. It doubles after each
	// further failure.
	Delay time.Duration
	// MaxDelay caps any single wait, including a server's Retry-After.
	// Zero means no cap.
	MaxDelay time.Duration
}

// DefaultPolicy is used by registry clients unless configured otherwise.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// Do calls fn until it succeeds, returns a non-transient error, or the
// attempts run out. The last error is returned; a cancelled ctx returns
// ctx.Err() instead.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var te *TransientError
		if !errors.As(lastErr, &te) || i == attempts-1 {
			return lastErr
		}

		wait := delay
		if te.After > wait {
			wait = te.After
		}
		if p.MaxDelay > 0 {
			wait = min(wait, p.MaxDelay)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return lastErr
}

// RetryAfter parses a Retry-After header given in seconds. HTTP dates and
// malformed values yield zero.
func RetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
