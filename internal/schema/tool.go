// Package schema contains the contracts shared between the proxy services and
// the tool registry. A service opts into tool exposure by implementing
// ToolService; the registry never needs to know the concrete type.
package schema

// ToolService marks a type whose methods are exposed as agent-callable tools.
// ToolOperations is called once, during discovery, on a zero-ish instance used
// only for its metadata; calls are always made on an instance obtained from
// the service resolver.
type ToolService interface {
	ToolOperations() []OperationSpec
}

// OperationSpec tags one exported method as a tool operation.
type OperationSpec struct {
	// Method is the Go method name on the service type.
	Method string
	// Name overrides the public tool name. Empty means Method.
	Name        string
	Description string
	// Params describes the method's parameters in declaration order,
	// skipping any context.Context parameter.
	Params []ParamSpec
}

// PublicName returns the name callers use to reach the operation.
func (s OperationSpec) PublicName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Method
}

// ParamSpec names and documents one method parameter.
type ParamSpec struct {
	Name        string
	Description string
	HasDefault  bool
	Default     any
}

// Param is shorthand for a ParamSpec without a default.
func Param(name, description string) ParamSpec {
	return ParamSpec{Name: name, Description: description}
}

// OptionalParam is shorthand for a ParamSpec with a default value.
func OptionalParam(name, description string, def any) ParamSpec {
	return ParamSpec{Name: name, Description: description, HasDefault: true, Default: def}
}
