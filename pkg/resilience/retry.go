// SPDX-License-Identifier: Apache-2.0
package resilience

import (
	"context"
	"time"

	"github.com/jllopis/council/pkg/errors"
)

// DefaultTimeoutMultiplier scales the per-attempt deadline for the single
// retry after a timeout.
const DefaultTimeoutMultiplier = 1.5

// TimeoutRetry is the backend call policy: one attempt under the configured
// timeout, and when that attempt times out, exactly one retry under an
// escalated timeout. Any other failure is returned without a second attempt.
//
// The configured Timeout is never mutated, so the escalation cannot leak
// into later calls that share this policy value.
type TimeoutRetry struct {
	// Timeout is the per-attempt deadline for the first attempt.
	Timeout time.Duration

	// Multiplier scales Timeout for the retry. Values <= 0 fall back to
	// DefaultTimeoutMultiplier.
	Multiplier float64

	// OnRetry, when set, is invoked right before the retry with the
	// escalated deadline. Callers use it for logging.
	OnRetry func(escalated time.Duration)
}

// Escalated returns the deadline the retry attempt runs under.
func (tr TimeoutRetry) Escalated() time.Duration {
	m := tr.Multiplier
	if m <= 0 {
		m = DefaultTimeoutMultiplier
	}
	return time.Duration(float64(tr.Timeout) * m)
}

// Do executes fn under the policy.
func (tr TimeoutRetry) Do(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	value, err := WithTimeoutResult(ctx, tr.Timeout, fn)
	if err == nil || !errors.IsCode(err, errors.CodeTimeout) {
		return value, err
	}
	if ctx.Err() != nil {
		return nil, err
	}

	escalated := tr.Escalated()
	if tr.OnRetry != nil {
		tr.OnRetry(escalated)
	}
	return WithTimeoutResult(ctx, escalated, fn)
}
