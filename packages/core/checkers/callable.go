package checkers

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Parameter describes one input of a Callable.
type Parameter struct {
	Name       string
	Type       reflect.Type
	HasDefault bool
	Default    any
}

// Callable is the body of a Test.
type Callable interface {
	Parameters() []Parameter
	Call(args []any) error
}

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[*Context]()
)

type funcCallable struct {
	fn     reflect.Value
	params []Parameter
}

// NewFuncCallable adapts fn, a function returning nothing or an error.
// names label fn's parameters in order; a function whose only parameter is
// a *Context may omit them. defaults supplies values for parameters that
// may be absent from the context.
func NewFuncCallable(fn any, names []string, defaults map[string]any) (Callable, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("test body must be a function, got %T", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, errors.New("variadic test functions are not supported")
	}
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) != errorType {
			return nil, fmt.Errorf("test function must return error, got %s", t.Out(0))
		}
	default:
		return nil, fmt.Errorf("test function returns %d values, want at most one error", t.NumOut())
	}

	if len(names) == 0 && t.NumIn() == 1 && t.In(0) == contextType {
		names = []string{ContextVariable}
	}
	if len(names) != t.NumIn() {
		return nil, fmt.Errorf("test function takes %d parameters but %d names were given", t.NumIn(), len(names))
	}

	seen := make(map[string]bool, len(names))
	params := make([]Parameter, t.NumIn())
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("parameter %d has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate parameter name %q", name)
		}
		seen[name] = true
		params[i] = Parameter{Name: name, Type: t.In(i)}
		if d, ok := defaults[name]; ok {
			params[i].HasDefault = true
			params[i].Default = d
		}
	}
	for name := range defaults {
		if !seen[name] {
			return nil, fmt.Errorf("default given for unknown parameter %q", name)
		}
	}

	return &funcCallable{fn: v, params: params}, nil
}

func (c *funcCallable) Parameters() []Parameter {
	out := make([]Parameter, len(c.params))
	copy(out, c.params)
	return out
}

func (c *funcCallable) Call(args []any) error {
	if len(args) != len(c.params) {
		return fmt.Errorf("got %d arguments, want %d", len(args), len(c.params))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := convertArg(arg, c.params[i].Type)
		if err != nil {
			return fmt.Errorf("variable %q: %w", c.params[i].Name, err)
		}
		in[i] = v
	}
	out := c.fn.Call(in)
	if len(out) == 0 || out[0].IsNil() {
		return nil
	}
	return out[0].Interface().(error)
}

func convertArg(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	switch {
	case isNumeric(v.Kind()) && isNumeric(t.Kind()):
		if isFloat(v.Kind()) && !isFloat(t.Kind()) {
			f := v.Float()
			if f != math.Trunc(f) {
				return reflect.Value{}, fmt.Errorf("cannot use non-integral %v as %s", f, t)
			}
		}
		if !fits(v, t) {
			return reflect.Value{}, fmt.Errorf("value %v overflows %s", arg, t)
		}
		return v.Convert(t), nil
	case v.Kind() == reflect.String && t.Kind() == reflect.String:
		return v.Convert(t), nil
	case v.Kind() == reflect.Slice && t.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := convertArg(v.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, t)
}

// fits reports whether the numeric value v converts to t without wrapping
// or truncation.
func fits(v reflect.Value, t reflect.Type) bool {
	target := reflect.Zero(t)
	switch {
	case isSigned(v.Kind()):
		i := v.Int()
		switch {
		case isSigned(t.Kind()):
			return !target.OverflowInt(i)
		case isUnsigned(t.Kind()):
			return i >= 0 && !target.OverflowUint(uint64(i))
		}
	case isUnsigned(v.Kind()):
		u := v.Uint()
		switch {
		case isSigned(t.Kind()):
			return u <= math.MaxInt64 && !target.OverflowInt(int64(u))
		case isUnsigned(t.Kind()):
			return !target.OverflowUint(u)
		}
	default:
		f := v.Float()
		switch {
		case isSigned(t.Kind()):
			return f >= math.MinInt64 && f < math.MaxInt64 && !target.OverflowInt(int64(f))
		case isUnsigned(t.Kind()):
			return f >= 0 && f < math.MaxUint64 && !target.OverflowUint(uint64(f))
		default:
			return !target.OverflowFloat(f)
		}
	}
	return true
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
