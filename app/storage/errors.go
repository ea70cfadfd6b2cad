package storage

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

// RetryableError marks a transient backend failure. The whole call is
// safe to retry because ledger writes are idempotent per key.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("transient storage failure during %s: %v", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// PermanentError marks a backend-side failure that retrying will not
// fix, e.g. a constraint violation unrelated to input validity.
type PermanentError struct {
	Op  string
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// classify tags a driver error as retryable or permanent. Connection
// and timeout problems are retryable; everything the backend rejected
// outright is permanent.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &RetryableError{Op: op, Err: err}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 is connection trouble, 57 operator intervention
		// (e.g. server shutdown); both clear up on their own.
		switch pqErr.Code.Class() {
		case "08", "57":
			return &RetryableError{Op: op, Err: err}
		}
		return &PermanentError{Op: op, Err: err}
	}
	return &PermanentError{Op: op, Err: err}
}
