package toolkit

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNullResult is returned when an operation completes without a value.
var ErrNullResult = errors.New("Tool returned null result")

// NotFoundError means no operation is registered under Name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Tool '%s' not found", e.Name)
}

// BindingError means an argument was missing or could not be converted.
type BindingError struct {
	Param string
	From  string
	To    string
	Err   error
}

func (e *BindingError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("missing required argument '%s'", e.Param)
	}
	if e.Err != nil {
		return fmt.Sprintf("argument '%s': cannot convert %s to %s: %v", e.Param, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("argument '%s': cannot convert %s to %s", e.Param, e.From, e.To)
}

func (e *BindingError) Unwrap() error { return e.Err }

// ResolutionError means the resolver could not produce a service instance.
type ResolutionError struct {
	Owner string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Owner, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// InvocationError wraps an error raised by the operation itself. Its message
// is the operation's error text, unchanged.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string { return e.Err.Error() }

func (e *InvocationError) Unwrap() error { return e.Err }

// failure is the payload returned for every failed call.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FailurePayload renders message as {"success":false,"message":...}.
func FailurePayload(message string) string {
	data, err := json.Marshal(failure{Message: message})
	if err != nil {
		return `{"success":false,"message":"internal error"}`
	}
	return string(data)
}

// ParseFailure reports whether s is a failure payload and returns its message.
func ParseFailure(s string) (string, bool) {
	var f struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(s), &f); err != nil || f.Success == nil || *f.Success {
		return "", false
	}
	return f.Message, true
}
