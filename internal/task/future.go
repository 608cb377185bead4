package task

import (
	"context"
	"fmt"
	"sync"
)

// Future is a single-assignment result that becomes available
// asynchronously. It is resolved at most once; later calls to Complete
// are ignored.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// NewFuture returns an unresolved Future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and returns a Future resolved with its
// result. A panic in fn resolves the Future with ErrTaskPanicked.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.Complete(zero, fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
		}()
		f.Complete(fn())
	}()
	return f
}

// Complete resolves the Future. It reports whether this call was the one
// that resolved it.
func (f *Future[T]) Complete(value T, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
		resolved = true
	})
	return resolved
}

// Done returns a channel closed once the Future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future is resolved or ctx is done. Abandoning the
// wait does not affect the underlying work.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
