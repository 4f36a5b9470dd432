// Package retry re-runs operations that fail transiently, sleeping between
// attempts according to a BackoffStrategy.
//
//	err := retry.Do(ctx, &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.DefaultExponentialBackoff(),
//		Logger:      log,
//	}, func(ctx context.Context) error {
//		return fetch(ctx)
//	})
//
// DefaultRetryIf only retries *errors.Error values whose Retryable method
// says so: network failures and 5xx responses. 4xx responses, parse errors
// and storage errors fail immediately.
package retry
