// Package bulk sends one piece of content to many recipients, one at a time,
// and reports the outcome of every recipient without aborting the batch.
package bulk

import (
	"context"
	"time"
)

// SendFunc delivers content to a single recipient and returns the provider id.
type SendFunc[R, C any] func(ctx context.Context, recipient R, content C) (string, error)

// Success is a recipient the provider accepted.
type Success[R any] struct {
	Recipient R
	ID        string
}

// Failure is a recipient that could not be served.
type Failure[R any] struct {
	Recipient R
	Err       error
}

// Result holds every recipient exactly once, either in Succeeded or in Failed,
// each list in input order.
type Result[R any] struct {
	Succeeded []Success[R]
	Failed    []Failure[R]
}

// Total is the number of recipients covered by the result.
func (r Result[R]) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

type options struct {
	delay time.Duration
}

// Option tunes a Send call.
type Option func(*options)

// WithDelay pauses for d between two consecutive sends.
func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// Send invokes send for each recipient sequentially. Per-recipient errors are
// collected, never returned. If ctx ends mid-batch, the recipients not yet
// attempted are reported as failed with the context error.
func Send[R, C any](ctx context.Context, recipients []R, content C, send SendFunc[R, C], opts ...Option) Result[R] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	res := Result[R]{
		Succeeded: make([]Success[R], 0, len(recipients)),
		Failed:    make([]Failure[R], 0),
	}

	for i, r := range recipients {
		if err := ctx.Err(); err != nil {
			for _, rest := range recipients[i:] {
				res.Failed = append(res.Failed, Failure[R]{Recipient: rest, Err: err})
			}
			return res
		}

		id, err := send(ctx, r, content)
		if err != nil {
			res.Failed = append(res.Failed, Failure[R]{Recipient: r, Err: err})
		} else {
			res.Succeeded = append(res.Succeeded, Success[R]{Recipient: r, ID: id})
		}

		if o.delay > 0 && i < len(recipients)-1 {
			if !sleep(ctx, o.delay) {
				for _, rest := range recipients[i+1:] {
					res.Failed = append(res.Failed, Failure[R]{Recipient: rest, Err: ctx.Err()})
				}
				return res
			}
		}
	}
	return res
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
