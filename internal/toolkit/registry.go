package toolkit

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/edutools/edutools/internal/schema"
)

var toolServiceType = reflect.TypeOf((*schema.ToolService)(nil)).Elem()

// Source enumerates the candidate service types scanned during discovery.
type Source interface {
	ServiceTypes() []reflect.Type
}

// TypeList is a Source backed by a fixed list of types.
type TypeList []reflect.Type

func (l TypeList) ServiceTypes() []reflect.Type { return l }

// TypesOf builds a TypeList from sample values, typically typed nil pointers
// such as (*services.CourseTools)(nil).
func TypesOf(samples ...any) TypeList {
	list := make(TypeList, 0, len(samples))
	for _, s := range samples {
		list = append(list, reflect.TypeOf(s))
	}
	return list
}

// Registry holds the discovered operations. The table is written once by
// Discover and read without locking afterwards.
type Registry struct {
	source Source

	discovered atomic.Bool
	mu         sync.Mutex
	scans      int

	table map[string]*Descriptor
	names []string
}

// NewRegistry returns a registry that will scan source on first use.
func NewRegistry(source Source) *Registry {
	return &Registry{source: source}
}

// Discover populates the registry. It is safe for concurrent use and runs the
// scan at most once.
func (r *Registry) Discover() {
	if r.discovered.Load() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.discovered.Load() {
		return
	}

	r.scans++
	table := r.scan()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	r.table = table
	r.names = names
	r.discovered.Store(true)

	slog.Info("toolkit: discovery complete", "tools", len(names))
}

// Names returns all registered operation names in sorted order.
func (r *Registry) Names() []string {
	r.Discover()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.Discover()
	d, ok := r.table[name]
	return d, ok
}

// Descriptors returns every descriptor, ordered by name.
func (r *Registry) Descriptors() []*Descriptor {
	r.Discover()
	out := make([]*Descriptor, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.table[name])
	}
	return out
}

func (r *Registry) scan() map[string]*Descriptor {
	table := make(map[string]*Descriptor)
	if r.source == nil {
		return table
	}

	for _, t := range r.source.ServiceTypes() {
		descriptors, err := scanType(t)
		if err != nil {
			slog.Warn("toolkit: skipping service", "type", typeName(t), "err", err)
			continue
		}
		for _, d := range descriptors {
			if prev, dup := table[d.Name]; dup {
				slog.Warn("toolkit: duplicate tool name rejected",
					"tool", d.Name, "kept", typeName(prev.Owner), "rejected", typeName(d.Owner))
				continue
			}
			table[d.Name] = d
		}
	}
	return table
}

// scanType collects the tagged operations of one service type. Individual
// operations that do not match their method are skipped with a warning.
func scanType(t reflect.Type) (out []*Descriptor, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during scan: %v", p)
		}
	}()

	if t == nil {
		return nil, fmt.Errorf("nil type")
	}
	if !t.Implements(toolServiceType) {
		return nil, fmt.Errorf("%s does not implement schema.ToolService", typeName(t))
	}

	svc := reflect.Zero(t).Interface().(schema.ToolService)
	for _, spec := range svc.ToolOperations() {
		d, err := buildDescriptor(t, spec)
		if err != nil {
			slog.Warn("toolkit: skipping operation", "type", typeName(t), "method", spec.Method, "err", err)
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func buildDescriptor(t reflect.Type, spec schema.OperationSpec) (*Descriptor, error) {
	m, ok := t.MethodByName(spec.Method)
	if !ok || !m.IsExported() {
		return nil, fmt.Errorf("no exported method %q", spec.Method)
	}
	mt := m.Type
	if mt.IsVariadic() {
		return nil, fmt.Errorf("variadic methods are not supported")
	}
	if err := checkResults(mt); err != nil {
		return nil, err
	}

	params := make([]Param, 0, mt.NumIn()-1)
	next := 0
	// In(0) is the receiver.
	for i := 1; i < mt.NumIn(); i++ {
		in := mt.In(i)
		if in == contextType {
			params = append(params, Param{Name: "ctx", Type: in, IsContext: true})
			continue
		}
		if next >= len(spec.Params) {
			return nil, fmt.Errorf("parameter %d (%s) has no metadata", i, in)
		}
		ps := spec.Params[next]
		next++
		params = append(params, Param{
			Name:        ps.Name,
			Type:        in,
			Kind:        kindOf(in),
			Description: ps.Description,
			HasDefault:  ps.HasDefault,
			Default:     ps.Default,
		})
	}
	if next != len(spec.Params) {
		return nil, fmt.Errorf("metadata lists %d parameters, method takes %d", len(spec.Params), next)
	}

	desc := spec.Description
	if desc == "" {
		desc = DefaultDescription
	}
	return &Descriptor{
		Name:        spec.PublicName(),
		Owner:       t,
		Method:      m,
		Description: desc,
		Params:      params,
	}, nil
}

func checkResults(mt reflect.Type) error {
	switch mt.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if mt.Out(1) != errorType {
			return fmt.Errorf("second result must be error, got %s", mt.Out(1))
		}
		return nil
	default:
		return fmt.Errorf("methods may return at most (value, error)")
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
