// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryPolicy bounds the per-file load attempts.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts per file.
	MaxAttempts int

	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration

	// ErrorBackoff is the sleep after a failed attempt.
	ErrorBackoff time.Duration

	// TimeoutBackoff is the sleep after an attempt that hit its timeout.
	// Timeouts get a longer pause since the backend is likely overloaded.
	TimeoutBackoff time.Duration
}

// DefaultRetryPolicy returns the production policy: 3 attempts, 5 minutes
// per attempt, 5s backoff on error and 10s on timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: 5 * time.Minute,
		ErrorBackoff:   5 * time.Second,
		TimeoutBackoff: 10 * time.Second,
	}
}

// RetryWithPolicy runs an operation with bounded attempts, a per-attempt
// timeout and fixed backoff between attempts. The operation receives a
// context that expires at the attempt timeout. Returns the last attempt's
// error if all attempts fail, or the parent context's error if it is
// cancelled between attempts.
func RetryWithPolicy(ctx context.Context, policy RetryPolicy, operation func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		lastErr = operation(attemptCtx)
		cancel()

		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		// A parent cancellation is not retryable.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", policy.MaxAttempts, "error", lastErr)

		if attempt == policy.MaxAttempts {
			break
		}

		backoff := policy.ErrorBackoff
		if errors.Is(lastErr, context.DeadlineExceeded) {
			backoff = policy.TimeoutBackoff
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
