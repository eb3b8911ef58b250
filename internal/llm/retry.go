package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/iksnae/webex-summarizer/internal"
)

// Retrying retries a client's requests that failed with a retryable APIError
type Retrying struct {
	next       Client
	maxRetries int
	interval   time.Duration
}

// NewRetrying wraps next with up to maxRetries retries
func NewRetrying(next Client, maxRetries int) *Retrying {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retrying{next: next, maxRetries: maxRetries, interval: 2 * time.Second}
}

// WithInterval sets the first wait between attempts
func (r *Retrying) WithInterval(d time.Duration) *Retrying {
	r.interval = d
	return r
}

// Model returns the wrapped client's model
func (r *Retrying) Model() string {
	return r.next.Model()
}

// Generate calls the wrapped client. The last error is returned unchanged.
func (r *Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.interval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxRetries)), ctx)

	var text string
	op := func() error {
		out, err := r.next.Generate(ctx, prompt)
		if err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		text = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		internal.LogWarn("Completion request failed, retrying in %s: %v", wait.Round(time.Millisecond), err)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", err
	}
	return text, nil
}

func isRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}
