package database

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// RetryValue runs op up to maxAttempts times, retrying only transient driver
// errors (network resets, TLS handshake failures, timeouts). Anything else
// fails immediately.
func RetryValue[T any](ctx context.Context, maxAttempts int, op func() (T, error)) (T, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !isTransient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(maxAttempts)))
}

// WithRetry is RetryValue for operations with no result
func WithRetry(ctx context.Context, maxAttempts int, op func() error) error {
	_, err := RetryValue(ctx, maxAttempts, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

func isTransient(err error) bool {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "tls: ") ||
		strings.Contains(msg, "broken pipe")
}
