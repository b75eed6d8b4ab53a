// SPDX-License-Identifier: Apache-2.0
// Package resilience provides the timeout and retry machinery for Council
// backend calls.
package resilience

import (
	"context"
	"time"

	"github.com/jllopis/council/pkg/errors"
)

// WithTimeout executes fn with a deadline of d. The derived context is
// handed to fn so transport-level work is bounded too. Expiry surfaces as
// errors.CodeTimeout; a cancellation of the parent context does not, so
// callers can tell a slow backend apart from an aborted run.
func WithTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	_, err := WithTimeoutResult(parent, d, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx)
	})
	return err
}

// WithTimeoutResult executes fn with a deadline of d, returning both result
// and error. A zero duration means no deadline beyond the parent's.
func WithTimeoutResult(parent context.Context, d time.Duration, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if d == 0 {
		return fn(parent)
	}

	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()

	type result struct {
		value interface{}
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := fn(ctx)
		done <- result{value, err}
	}()

	select {
	case <-ctx.Done():
		if parent.Err() != nil {
			// The caller went away; this is an abort, not an attempt timeout.
			return nil, errors.New(errors.CodeInternal, "operation canceled", parent.Err())
		}
		return nil, errors.New(errors.CodeTimeout, "operation exceeded timeout", ctx.Err()).
			WithContext("timeout", d.String()).
			WithRecoverable(true)
	case res := <-done:
		return res.value, res.err
	}
}
