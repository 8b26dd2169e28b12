// Package toolkit is the tool registry and dynamic invoker behind the agent
// facing proxy layer. It discovers operations on tool services once, describes
// their parameters as JSON schema, binds untyped JSON arguments to the typed
// Go signature and calls the method on a resolved service instance.
package toolkit

import (
	"context"
	"reflect"
)

// DefaultDescription is used when an operation is registered without one.
const DefaultDescription = "No description available"

// Kind is the closed set of scalar kinds a parameter can be declared as.
type Kind int

const (
	KindStructured Kind = iota
	KindBool
	KindInteger
	KindNumber
	KindString
)

// JSONType returns the JSON schema type name for the kind.
// Structured values are described as strings.
func (k Kind) JSONType() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	default:
		return "string"
	}
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "structured"
	}
}

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// kindOf maps a Go type to its Kind. Pointers report the kind of their
// element, so *int is an optional integer.
func kindOf(t reflect.Type) Kind {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger
	case reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.String:
		return KindString
	default:
		return KindStructured
	}
}

// Param is the metadata of one method parameter.
type Param struct {
	Name        string
	Type        reflect.Type
	Kind        Kind
	Description string
	HasDefault  bool
	Default     any
	// IsContext marks the context.Context parameter. It is never bound from
	// caller arguments and never appears in a schema.
	IsContext bool
}

// Optional reports whether the declared type can be nil: pointer, slice, map
// or interface. Optional parameters bind nil when absent, under either
// MissingPolicy, and are never listed as required in the schema.
func (p Param) Optional() bool {
	switch p.Type.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

// Required reports whether a caller must supply the parameter.
func (p Param) Required() bool {
	return !p.IsContext && !p.HasDefault && !p.Optional()
}

// Descriptor is the immutable record of one discovered operation.
type Descriptor struct {
	Name        string
	Owner       reflect.Type
	Method      reflect.Method
	Description string
	Params      []Param
}

// CallerParams returns the parameters visible to callers, in order.
func (d *Descriptor) CallerParams() []Param {
	out := make([]Param, 0, len(d.Params))
	for _, p := range d.Params {
		if !p.IsContext {
			out = append(out, p)
		}
	}
	return out
}
