package executor

import (
	"context"
	"sync"
)

// Deferred is a resolver value that settles asynchronously. A resolver may
// return one instead of a plain value; the executor suspends only the subtree
// of that field until the value settles, leaving sibling fields untouched.
type Deferred struct {
	done chan struct{}
	once sync.Once

	value any
	err   error
}

// NewDeferred returns an unsettled Deferred. Settle it with Resolve or
// Reject from any goroutine.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Defer runs fn on its own goroutine and returns a Deferred settled with
// fn's outcome.
func Defer(fn func() (any, error)) *Deferred {
	d := NewDeferred()
	go func() {
		v, err := fn()
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(v)
	}()
	return d
}

// Resolve settles the deferred with a value. Later calls to Resolve or
// Reject are ignored.
func (d *Deferred) Resolve(value any) {
	d.once.Do(func() {
		d.value = value
		close(d.done)
	})
}

// Reject settles the deferred with an error.
func (d *Deferred) Reject(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Await blocks until the deferred settles or ctx is done.
func (d *Deferred) Await(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
