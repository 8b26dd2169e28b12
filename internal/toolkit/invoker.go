package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
)

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	futureType = reflect.TypeOf((*Future)(nil)).Elem()
)

// ServiceResolver produces a live service instance for an owner type.
type ServiceResolver interface {
	Resolve(t reflect.Type) (any, error)
}

// ResolverFunc adapts a function to ServiceResolver.
type ResolverFunc func(t reflect.Type) (any, error)

func (f ResolverFunc) Resolve(t reflect.Type) (any, error) { return f(t) }

// Option configures an Invoker.
type Option func(*Invoker)

// WithMissingPolicy sets how missing required arguments are handled.
func WithMissingPolicy(p MissingPolicy) Option {
	return func(i *Invoker) { i.policy = p }
}

// Invoker calls registered operations by name.
type Invoker struct {
	registry *Registry
	resolver ServiceResolver
	policy   MissingPolicy
}

// NewInvoker returns an Invoker that resolves services through resolver.
func NewInvoker(registry *Registry, resolver ServiceResolver, opts ...Option) *Invoker {
	inv := &Invoker{registry: registry, resolver: resolver}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Registry returns the registry the invoker reads from.
func (i *Invoker) Registry() *Registry { return i.registry }

// Call invokes name with args and always returns a string. Failures are
// rendered as {"success":false,"message":...}.
func (i *Invoker) Call(ctx context.Context, name string, args map[string]any) string {
	out, err := i.Invoke(ctx, name, args)
	if err != nil {
		return FailurePayload(err.Error())
	}
	return out
}

// Invoke is Call with a typed error. The error is one of *NotFoundError,
// *ResolutionError, *BindingError, *InvocationError or ErrNullResult.
func (i *Invoker) Invoke(ctx context.Context, name string, args map[string]any) (out string, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	i.registry.Discover()

	d, ok := i.registry.Lookup(name)
	if !ok {
		return "", &NotFoundError{Name: name}
	}

	defer func() {
		if p := recover(); p != nil {
			err = &InvocationError{Tool: name, Err: fmt.Errorf("panic: %v", p)}
		}
		if err != nil {
			slog.Error("toolkit: tool call failed", "tool", name, "err", err)
		}
	}()

	recv, err := i.resolve(d)
	if err != nil {
		return "", err
	}

	bound, err := Bind(ctx, d, args, i.policy)
	if err != nil {
		return "", err
	}

	results := d.Method.Func.Call(append([]reflect.Value{recv}, bound...))
	value, hasValue, err := unpack(results)
	if err != nil {
		return "", &InvocationError{Tool: name, Err: err}
	}
	if !hasValue {
		return "", nil
	}

	value, hasValue, err = await(ctx, value)
	if err != nil {
		return "", &InvocationError{Tool: name, Err: err}
	}
	if !hasValue {
		return "", nil
	}
	return render(value)
}

func (i *Invoker) resolve(d *Descriptor) (reflect.Value, error) {
	if i.resolver == nil {
		return reflect.Value{}, &ResolutionError{Owner: d.Owner.String(), Err: errors.New("no service resolver")}
	}
	svc, err := i.resolver.Resolve(d.Owner)
	if err != nil {
		return reflect.Value{}, &ResolutionError{Owner: d.Owner.String(), Err: err}
	}
	if svc == nil {
		return reflect.Value{}, &ResolutionError{Owner: d.Owner.String(), Err: errors.New("resolver returned nil")}
	}
	recv := reflect.ValueOf(svc)
	if !recv.Type().AssignableTo(d.Owner) {
		return reflect.Value{}, &ResolutionError{
			Owner: d.Owner.String(),
			Err:   fmt.Errorf("resolver returned %s", recv.Type()),
		}
	}
	return recv, nil
}

// unpack splits method results into the value and the returned error.
// hasValue is false for methods that return only an error or nothing.
func unpack(results []reflect.Value) (reflect.Value, bool, error) {
	switch len(results) {
	case 0:
		return reflect.Value{}, false, nil
	case 1:
		r := results[0]
		if r.Type() == errorType {
			if !r.IsNil() {
				return reflect.Value{}, false, r.Interface().(error)
			}
			return reflect.Value{}, false, nil
		}
		return r, true, nil
	default:
		if e := results[1]; !e.IsNil() {
			return reflect.Value{}, false, e.Interface().(error)
		}
		return results[0], true, nil
	}
}

// await resolves channels and futures. A channel closed without a value
// yields no value.
func await(ctx context.Context, v reflect.Value) (reflect.Value, bool, error) {
	if v.Kind() == reflect.Chan && v.Type().ChanDir()&reflect.RecvDir != 0 {
		if v.IsNil() {
			return reflect.Value{}, false, ErrNullResult
		}
		chosen, recv, ok := reflect.Select([]reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: v},
			{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
		})
		if chosen == 1 {
			return reflect.Value{}, false, ctx.Err()
		}
		if !ok {
			return reflect.Value{}, false, nil
		}
		if recv.Type().Implements(errorType) && !isNil(recv) {
			return reflect.Value{}, false, recv.Interface().(error)
		}
		return recv, true, nil
	}

	if v.Type().Implements(futureType) && !isNil(v) {
		res, err := v.Interface().(Future).Await(ctx)
		if err != nil {
			return reflect.Value{}, false, err
		}
		if res == nil {
			return reflect.Value{}, false, nil
		}
		return reflect.ValueOf(res), true, nil
	}

	return v, true, nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

func isStruct(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		return v.Type().Elem().Kind() == reflect.Struct
	}
	return v.Kind() == reflect.Struct
}

// render converts the final value to the string handed back to callers.
func render(v reflect.Value) (string, error) {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", ErrNullResult
		}
		v = v.Elem()
	}
	if isNil(v) {
		return "", ErrNullResult
	}

	// Structs render as JSON even when they implement fmt.Stringer.
	if !isStruct(v) {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String(), nil
		}
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	}
	if b, ok := v.Interface().([]byte); ok {
		return string(b), nil
	}

	data, err := json.Marshal(v.Interface())
	if err != nil {
		return fmt.Sprintf("%v", v.Interface()), nil
	}
	return string(data), nil
}
