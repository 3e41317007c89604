package assertions

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

func fail(message []string, format string, args ...any) error {
	for _, m := range message {
		if m != "" {
			return &checkers.AssertionError{Message: m}
		}
	}
	return checkers.NewAssertionError(format, args...)
}

// Check returns the first non-nil error of errs.
func Check(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// IsTrue checks that condition holds.
func IsTrue(condition bool, message ...string) error {
	if condition {
		return nil
	}
	return fail(message, "expected true; got <%v>", condition)
}

func IsFalse(condition bool, message ...string) error {
	if !condition {
		return nil
	}
	return fail(message, "expected false; got <%v>", condition)
}

// AreEqual checks a == b. Numbers of different types compare by value.
func AreEqual(a, b any, message ...string) error {
	if equal(a, b) {
		return nil
	}
	return fail(message, "expected equality; <%v> != <%v>", a, b)
}

func AreNotEqual(a, b any, message ...string) error {
	if !equal(a, b) {
		return nil
	}
	return fail(message, "expected non-equality; <%v> == <%v>", a, b)
}

// IsIn checks that item is an element of collection, a key of a map
// collection, or a substring of a string collection.
func IsIn(item, collection any, message ...string) error {
	found, err := contains(collection, item)
	if err != nil {
		return fail(message, "%v", err)
	}
	if found {
		return nil
	}
	return fail(message, "expected item to be present; <%v> is not in <%v>", item, collection)
}

// IsNotIn is the negation of IsIn.
func IsNotIn(item, collection any, message ...string) error {
	found, err := contains(collection, item)
	if err != nil {
		return fail(message, "%v", err)
	}
	if !found {
		return nil
	}
	return fail(message, "did not expect item to be present; <%v> is in <%v>", item, collection)
}

// IsEmpty checks that collection has length zero.
func IsEmpty(collection any, message ...string) error {
	n := length(collection)
	if n == -1 {
		return fail(message, "cannot get length of %T", collection)
	}
	if n == 0 {
		return nil
	}
	return fail(message, "expected empty; size is %d <%v>", n, collection)
}

func IsNotEmpty(collection any, message ...string) error {
	n := length(collection)
	if n == -1 {
		return fail(message, "cannot get length of %T", collection)
	}
	if n > 0 {
		return nil
	}
	return fail(message, "expected not empty; size is %d <%v>", n, collection)
}

// HasLength checks that collection has exactly expected elements.
func HasLength(collection any, expected int, message ...string) error {
	n := length(collection)
	if n == -1 {
		return fail(message, "cannot get length of %T", collection)
	}
	if n == expected {
		return nil
	}
	return fail(message, "expected length <%d>; got length <%d> for <%v>", expected, n, collection)
}

// IsNil treats typed nil pointers, maps, slices, channels and functions as
// nil.
func IsNil(v any, message ...string) error {
	if isNil(v) {
		return nil
	}
	return fail(message, "expected nil; got %v", v)
}

func IsNotNil(v any, message ...string) error {
	if !isNil(v) {
		return nil
	}
	return fail(message, "expected non-nil value; got %v", v)
}

// AreSame checks that a and b are the same reference value. Values that
// are not references are never the same.
func AreSame(a, b any, message ...string) error {
	if same(a, b) {
		return nil
	}
	return fail(message, "expected same object; %v and %v are different", a, b)
}

func AreNotSame(a, b any, message ...string) error {
	if !same(a, b) {
		return nil
	}
	return fail(message, "expected different objects; %v and %v are the same", a, b)
}

// Contains checks that substr occurs in s.
func Contains(s, substr string, message ...string) error {
	if strings.Contains(s, substr) {
		return nil
	}
	return fail(message, "expected '%s' to contain '%s'", s, substr)
}

func StartsWith(s, prefix string, message ...string) error {
	if strings.HasPrefix(s, prefix) {
		return nil
	}
	return fail(message, "expected '%s' to start with '%s'", s, prefix)
}

func EndsWith(s, suffix string, message ...string) error {
	if strings.HasSuffix(s, suffix) {
		return nil
	}
	return fail(message, "expected '%s' to end with '%s'", s, suffix)
}

// Matches checks s against a regular expression. Surrounding slashes are
// optional.
func Matches(s, pattern string, message ...string) error {
	pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "/"), "/")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %w", err)
	}
	if re.MatchString(s) {
		return nil
	}
	return fail(message, "expected '%s' to match /%s/", s, pattern)
}

// JSONPath checks the value at a gjson path of a JSON document.
func JSONPath(document, path string, expected any, message ...string) error {
	if !gjson.Valid(document) {
		return fmt.Errorf("invalid JSON document")
	}
	result := gjson.Get(document, path)
	if !result.Exists() {
		return fail(message, "expected %s to exist", path)
	}
	if equal(result.Value(), expected) {
		return nil
	}
	return fail(message, "expected %s to be <%v>; got <%v>", path, expected, result.Value())
}

// MatchesSchema validates value against a JSON schema document.
func MatchesSchema(value any, schema string, message ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fail(message, "schema validation failed: %s", strings.Join(problems, "; "))
}

// ExpectError checks that fn returns an error matching target.
func ExpectError(target error, fn func() error, message ...string) error {
	err := fn()
	if errors.Is(err, target) {
		return nil
	}
	if err != nil {
		return fail(message, "expected error <%v> to be returned...it wasn't; unexpected error: <%v>", target, err)
	}
	return fail(message, "expected error <%v> to be returned...it wasn't", target)
}

// ExpectPanic checks that fn panics. When match is not empty, the panic
// value must contain it.
func ExpectPanic(match string, fn func(), message ...string) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			err = fail(message, "expected panic to be raised...it wasn't")
			return
		}
		if match != "" && !strings.Contains(fmt.Sprint(r), match) {
			err = fail(message, "expected panic to be raised...it wasn't; unexpected panic: <%v>", r)
		}
	}()
	fn()
	return nil
}
