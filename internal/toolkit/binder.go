package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// MissingPolicy decides what happens to a required parameter the caller
// did not supply.
type MissingPolicy int

const (
	// MissingStrict rejects the call with a BindingError.
	MissingStrict MissingPolicy = iota
	// MissingLenient binds the zero value of the declared type.
	MissingLenient
)

var (
	validate       = validator.New()
	rawMessageType = reflect.TypeOf(json.RawMessage(nil))
)

// Bind converts args into the ordered argument list d's method expects,
// excluding the receiver. A context parameter receives a non-cancellable
// copy of ctx.
func Bind(ctx context.Context, d *Descriptor, args map[string]any, policy MissingPolicy) ([]reflect.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	out := make([]reflect.Value, 0, len(d.Params))
	for _, p := range d.Params {
		v, err := bindParam(ctx, p, args, policy)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func bindParam(ctx context.Context, p Param, args map[string]any, policy MissingPolicy) (reflect.Value, error) {
	if p.IsContext {
		return reflect.ValueOf(context.WithoutCancel(ctx)), nil
	}

	if raw, ok := args[p.Name]; ok && raw != nil {
		return coerceParam(p, raw)
	}
	if p.HasDefault {
		if p.Default == nil {
			return reflect.Zero(p.Type), nil
		}
		return coerceParam(p, p.Default)
	}
	if p.Optional() || policy == MissingLenient {
		return reflect.Zero(p.Type), nil
	}
	return reflect.Value{}, &BindingError{Param: p.Name}
}

func coerceParam(p Param, raw any) (reflect.Value, error) {
	v, err := coerce(raw, p.Type)
	if err != nil {
		return reflect.Value{}, &BindingError{
			Param: p.Name,
			From:  fmt.Sprintf("%T", raw),
			To:    p.Type.String(),
			Err:   err,
		}
	}
	if p.Kind == KindStructured {
		if err := validateStruct(v); err != nil {
			return reflect.Value{}, &BindingError{
				Param: p.Name,
				From:  fmt.Sprintf("%T", raw),
				To:    p.Type.String(),
				Err:   err,
			}
		}
	}
	return v, nil
}

// coerce converts v to type to. Rules, in order: exact type, pointer unwrap,
// raw JSON decode, JSON text into a structured type, JSON payload decode,
// scalar conversion, JSON round trip.
func coerce(v any, to reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Type() == to {
		return rv, nil
	}

	if to.Kind() == reflect.Pointer {
		inner, err := coerce(v, to.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(to.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	if to.Kind() == reflect.Interface && rv.Type().Implements(to) {
		out := reflect.New(to).Elem()
		out.Set(rv)
		return out, nil
	}

	if rv.Type() == rawMessageType && to != rawMessageType {
		return decodeJSON(v.(json.RawMessage), to)
	}

	// Structured parameters are advertised as strings, so the value is
	// usually JSON text.
	if rv.Kind() == reflect.String && kindOf(to) == KindStructured {
		out, err := decodeJSON([]byte(rv.String()), to)
		if err == nil {
			return out, nil
		}
		if out, rtErr := roundTrip(v, to); rtErr == nil {
			return out, nil
		}
		return reflect.Value{}, err
	}

	if isPayload(rv.Kind()) && kindOf(to) != KindStructured {
		return roundTrip(v, to)
	}

	if kindOf(to) != KindStructured {
		if out, err := convertScalar(v, to); err == nil {
			return out, nil
		}
	}
	return roundTrip(v, to)
}

func isPayload(k reflect.Kind) bool {
	return k == reflect.Map || k == reflect.Slice || k == reflect.Struct
}

func convertScalar(v any, to reflect.Type) (reflect.Value, error) {
	out := reflect.New(to).Elem()
	switch to.Kind() {
	case reflect.Bool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if err := checkIntegral(v, false); err != nil {
			return reflect.Value{}, err
		}
		n, err := toInt64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, to)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if err := checkIntegral(v, true); err != nil {
			return reflect.Value{}, err
		}
		n, err := toUint64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, to)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%g overflows %s", f, to)
		}
		out.SetFloat(f)
	case reflect.String:
		s, err := cast.ToStringE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetString(s)
	default:
		return reflect.Value{}, fmt.Errorf("%s is not a scalar", to)
	}
	return out, nil
}

// checkIntegral rejects floats with a fractional part so 2.5 never binds to 2,
// and floats outside the 64-bit range before they wrap during conversion.
func checkIntegral(v any, unsigned bool) error {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return nil
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("%v is not an integer", v)
	}
	if unsigned {
		if f < 0 || f >= 1<<64 {
			return fmt.Errorf("%v is out of range", v)
		}
	} else if f < -(1<<63) || f >= 1<<63 {
		return fmt.Errorf("%v is out of range", v)
	}
	return nil
}

// toInt64 parses numeric text in base 10 only; cast would read "010" as octal.
func toInt64(v any) (int64, error) {
	switch s := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case json.Number:
		return strconv.ParseInt(string(s), 10, 64)
	}
	return cast.ToInt64E(v)
}

func toUint64(v any) (uint64, error) {
	switch s := v.(type) {
	case string:
		return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	case json.Number:
		return strconv.ParseUint(string(s), 10, 64)
	}
	return cast.ToUint64E(v)
}

func roundTrip(v any, to reflect.Type) (reflect.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return reflect.Value{}, err
	}
	return decodeJSON(data, to)
}

func decodeJSON(data []byte, to reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(to)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}

func validateStruct(v reflect.Value) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	err := validate.Struct(v.Interface())
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	return err
}
