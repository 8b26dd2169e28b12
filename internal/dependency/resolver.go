package dependency

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/dig"
)

// Resolver looks up service instances in a dig container by type.
// It satisfies toolkit.ServiceResolver.
type Resolver struct {
	mu sync.Mutex
	c  *dig.Container
}

func NewResolver(c *dig.Container) *Resolver {
	return &Resolver{c: c}
}

// Resolve invokes a synthesized func(T) against the container and returns
// the instance dig passed in. Types with no provider yield dig's error.
func (r *Resolver) Resolve(t reflect.Type) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("resolve: nil type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out any
	fnType := reflect.FuncOf([]reflect.Type{t}, nil, false)
	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		out = args[0].Interface()
		return nil
	})
	if err := r.c.Invoke(fn.Interface()); err != nil {
		return nil, err
	}
	return out, nil
}
