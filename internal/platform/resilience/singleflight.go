package resilience

import (
	"context"
	"sync"
)

// Flight collapses concurrent calls sharing a key into one execution.
// Callers that join an in-flight call receive the leader's result.
type Flight[V any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[V]
}

type flightCall[V any] struct {
	done    chan struct{}
	val     V
	err     error
	dups    int
	waiters int
	cancel  context.CancelFunc
}

// Do runs fn once per key at a time. fn receives a context detached from any
// single caller, so one caller's deadline never fails another's result. Each
// caller stops waiting when its own ctx ends; the shared call is cancelled
// once no caller is left waiting. shared reports whether the result was
// handed to more than one caller.
func (f *Flight[V]) Do(ctx context.Context, key string, fn func(context.Context) (V, error)) (v V, shared bool, err error) {
	if err := ctx.Err(); err != nil {
		return v, false, err
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]*flightCall[V])
	}
	c, joined := f.calls[key]
	if joined {
		c.dups++
		c.waiters++
	} else {
		callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c = &flightCall[V]{done: make(chan struct{}), waiters: 1, cancel: cancel}
		f.calls[key] = c
		go f.run(callCtx, key, c, fn)
	}
	f.mu.Unlock()

	select {
	case <-c.done:
		f.mu.Lock()
		shared = c.dups > 0
		f.mu.Unlock()
		return c.val, shared, c.err
	case <-ctx.Done():
		f.mu.Lock()
		c.waiters--
		if c.waiters == 0 {
			c.cancel()
			if f.calls[key] == c {
				delete(f.calls, key)
			}
		}
		f.mu.Unlock()
		var zero V
		return zero, joined, ctx.Err()
	}
}

func (f *Flight[V]) run(ctx context.Context, key string, c *flightCall[V], fn func(context.Context) (V, error)) {
	val, err := fn(ctx)

	f.mu.Lock()
	c.val, c.err = val, err
	if f.calls[key] == c {
		delete(f.calls, key)
	}
	f.mu.Unlock()

	c.cancel()
	close(c.done)
}

// InFlight reports how many keys currently have a running call.
func (f *Flight[V]) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
