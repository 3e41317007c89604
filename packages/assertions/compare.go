package assertions

import (
	"fmt"
	"reflect"
	"strings"
)

// equal reports deep equality, falling back to numeric comparison so that
// 2 and 2.0 are equal. Integers compare exactly; floats are used only when
// one side is a float.
func equal(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	ak, bk := numericKind(av), numericKind(bv)
	switch {
	case ak == kindNone || bk == kindNone:
		return false
	case ak == kindFloat || bk == kindFloat:
		return toFloat64(av) == toFloat64(bv)
	case ak == kindInt && bk == kindInt:
		return av.Int() == bv.Int()
	case ak == kindUint && bk == kindUint:
		return av.Uint() == bv.Uint()
	case ak == kindInt:
		return av.Int() >= 0 && uint64(av.Int()) == bv.Uint()
	default:
		return bv.Int() >= 0 && uint64(bv.Int()) == av.Uint()
	}
}

type numKind int

const (
	kindNone numKind = iota
	kindInt
	kindUint
	kindFloat
)

func numericKind(rv reflect.Value) numKind {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return kindUint
	case reflect.Float32, reflect.Float64:
		return kindFloat
	}
	return kindNone
}

func toFloat64(rv reflect.Value) float64 {
	switch numericKind(rv) {
	case kindInt:
		return float64(rv.Int())
	case kindUint:
		return float64(rv.Uint())
	}
	return rv.Float()
}

// length returns the length of v, or -1 if v has no length.
func length(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	default:
		return -1
	}
}

// contains reports whether item is an element of a slice or array, a key
// of a map, or a substring of a string.
func contains(collection, item any) (bool, error) {
	rv := reflect.ValueOf(collection)
	switch rv.Kind() {
	case reflect.String:
		return strings.Contains(rv.String(), fmt.Sprint(item)), nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if equal(rv.Index(i).Interface(), item) {
				return true, nil
			}
		}
		return false, nil
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			if equal(k.Interface(), item) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("cannot look for items in %T", collection)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// same reports whether a and b are the same reference value: pointers,
// maps, channels, functions or slices sharing type and address.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	}
	return false
}
