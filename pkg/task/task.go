// Package task runs fetches where only the most recently submitted one may deliver a result.
// Submitting new work cancels the context of whatever is still pending, so a slow old response
// can never overwrite a newer one.
package task

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to callers whose work was replaced by a newer submission
var ErrSuperseded = errors.New("superseded by a newer request")

// Latest runs one function at a time per instance in terms of results: every Run cancels the
// previous run's context and only the newest run returns its value. The zero value is ready to use.
type Latest[T any] struct {
	// OnSuperseded, when set, is called once for every run that lost to a newer one
	OnSuperseded func()

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Run executes fn with a context that is cancelled as soon as another Run starts or Cancel is called.
func (l *Latest[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	mine := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	v, err := fn(ctx)

	l.mu.Lock()
	stale := mine != l.seq
	if !stale {
		l.cancel = nil
	}
	l.mu.Unlock()

	if stale {
		if l.OnSuperseded != nil {
			l.OnSuperseded()
		}
		var zero T
		return zero, ErrSuperseded
	}
	return v, err
}

// Cancel abandons the pending run, if any. Its caller receives ErrSuperseded.
func (l *Latest[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}

// Debouncer delays every submission by Delay and drops it if a newer one arrives in the meantime.
// Work that already started is cancelled the same way as with Latest.
type Debouncer[T any] struct {
	Delay time.Duration

	latest Latest[T]
}

func NewDebouncer[T any](delay time.Duration, onSuperseded func()) *Debouncer[T] {
	d := &Debouncer[T]{Delay: delay}
	d.latest.OnSuperseded = onSuperseded
	return d
}

// Do waits for the quiet period and then runs fn, unless another Do or Cancel came first.
func (d *Debouncer[T]) Do(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	return d.latest.Run(ctx, func(ctx context.Context) (T, error) {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}
		return fn(ctx)
	})
}

// Cancel drops the pending submission
func (d *Debouncer[T]) Cancel() {
	d.latest.Cancel()
}
