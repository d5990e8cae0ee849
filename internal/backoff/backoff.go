// Package backoff holds the retry timing shared by the airtable client and
// the enrichment orchestrator.
package backoff

import (
	"context"
	"time"
)

var sleep = time.Sleep

// Delay returns the exponential delay for a retry attempt. Attempts are
// 1-based; the delay doubles with each one.
func Delay(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 1 {
		return 0
	}
	return base << (attempt - 1)
}

// Wait blocks for the delay or until the context is cancelled, whichever
// comes first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
