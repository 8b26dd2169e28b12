package toolkit

import (
	"context"
	"sync"
)

// Future is a pending result. An operation that returns a Future is awaited
// before its value is rendered.
type Future interface {
	Await(ctx context.Context) (any, error)
}

// Pending is a Future completed by a background goroutine.
type Pending[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// Go runs fn in a new goroutine and returns its pending result.
func Go[T any](fn func() (T, error)) *Pending[T] {
	p := &Pending[T]{done: make(chan struct{})}
	go func() {
		v, err := fn()
		p.complete(v, err)
	}()
	return p
}

func (p *Pending[T]) complete(v T, err error) {
	p.once.Do(func() {
		p.value = v
		p.err = err
		close(p.done)
	})
}

// Await blocks until the result is ready or ctx is done.
func (p *Pending[T]) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		if p.err != nil {
			return nil, p.err
		}
		return p.value, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
