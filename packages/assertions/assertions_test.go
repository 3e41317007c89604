package assertions

import (
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertions(t *testing.T) {
	x := 1
	y := 1
	xs := []int{1, 2}
	m := map[string]int{"a": 1}

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "is true", err: IsTrue(true)},
		{name: "is true fails", err: IsTrue(false), message: "expected true; got <false>"},
		{name: "is false", err: IsFalse(false)},
		{name: "is false fails", err: IsFalse(true), message: "expected false; got <true>"},
		{name: "are equal", err: AreEqual(2, 2)},
		{name: "are equal numeric", err: AreEqual(2, 2.0)},
		{name: "are equal deep", err: AreEqual([]string{"a"}, []string{"a"})},
		{name: "are equal fails", err: AreEqual(2, 3), message: "expected equality; <2> != <3>"},
		{name: "are equal large ints", err: AreEqual(int64(9007199254740993), int64(9007199254740992)), message: "expected equality; <9007199254740993> != <9007199254740992>"},
		{name: "are equal mixed signedness", err: AreEqual(uint64(7), int8(7))},
		{name: "are equal negative vs unsigned", err: AreEqual(-1, uint64(18446744073709551615)), message: "expected equality; <-1> != <18446744073709551615>"},
		{name: "are equal large uints", err: AreEqual(uint64(18446744073709551615), uint64(18446744073709551614)), message: "expected equality; <18446744073709551615> != <18446744073709551614>"},
		{name: "are not equal", err: AreNotEqual("a", "b")},
		{name: "are not equal fails", err: AreNotEqual(1, 1), message: "expected non-equality; <1> == <1>"},
		{name: "is in slice", err: IsIn(2, xs)},
		{name: "is in map", err: IsIn("a", m)},
		{name: "is in string", err: IsIn("ell", "hello")},
		{name: "is in fails", err: IsIn(3, xs), message: "expected item to be present; <3> is not in <[1 2]>"},
		{name: "is in unsupported", err: IsIn(1, 42), message: "cannot look for items in int"},
		{name: "is not in", err: IsNotIn(3, xs)},
		{name: "is not in fails", err: IsNotIn(1, xs), message: "did not expect item to be present; <1> is in <[1 2]>"},
		{name: "is empty", err: IsEmpty([]int{})},
		{name: "is empty fails", err: IsEmpty(xs), message: "expected empty; size is 2 <[1 2]>"},
		{name: "is not empty", err: IsNotEmpty("x")},
		{name: "is not empty fails", err: IsNotEmpty(""), message: "expected not empty; size is 0 <>"},
		{name: "has length", err: HasLength(xs, 2)},
		{name: "has length fails", err: HasLength(xs, 3), message: "expected length <3>; got length <2> for <[1 2]>"},
		{name: "has length unsupported", err: HasLength(5, 1), message: "cannot get length of int"},
		{name: "is nil", err: IsNil(nil)},
		{name: "is nil typed", err: IsNil((*int)(nil))},
		{name: "is nil fails", err: IsNil(5), message: "expected nil; got 5"},
		{name: "is not nil", err: IsNotNil(&x)},
		{name: "is not nil fails", err: IsNotNil(nil), message: "expected non-nil value; got <nil>"},
		{name: "are same", err: AreSame(&x, &x)},
		{name: "are same fails", err: AreSame(&x, &y)},
		{name: "are same values", err: AreSame(1, 1)},
		{name: "are not same", err: AreNotSame(&x, &y)},
		{name: "are not same fails", err: AreNotSame(m, m)},
		{name: "contains", err: Contains("hello", "ell")},
		{name: "contains fails", err: Contains("hello", "xyz"), message: "expected 'hello' to contain 'xyz'"},
		{name: "starts with", err: StartsWith("hello", "he")},
		{name: "ends with fails", err: EndsWith("hello", "he"), message: "expected 'hello' to end with 'he'"},
		{name: "matches", err: Matches("abc123", "/[a-z]+[0-9]+/")},
		{name: "matches fails", err: Matches("abc", "^[0-9]+$"), message: "expected 'abc' to match /^[0-9]+$/"},
		{name: "custom message", err: AreEqual(1, 2, "totals differ"), message: "totals differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			switch {
			case tt.message != "":
				require.Error(t, tt.err)
				assert.ErrorIs(t, tt.err, checkers.ErrAssertion)
				assert.Equal(t, tt.message, tt.err.Error())
			case tt.name == "are same fails" || tt.name == "are same values" || tt.name == "are not same fails":
				assert.ErrorIs(t, tt.err, checkers.ErrAssertion)
			default:
				assert.NoError(t, tt.err)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(nil, IsTrue(true)))

	err := Check(IsTrue(true), AreEqual(1, 2), AreEqual(3, 4))
	require.Error(t, err)
	assert.Equal(t, "expected equality; <1> != <2>", err.Error())
}

func TestMatches_InvalidPattern(t *testing.T) {
	err := Matches("abc", "[")
	require.Error(t, err)
	assert.NotErrorIs(t, err, checkers.ErrAssertion)
}

func TestJSONPath(t *testing.T) {
	doc := `{"user": {"name": "alice", "age": 30}, "tags": ["a", "b"]}`

	assert.NoError(t, JSONPath(doc, "user.name", "alice"))
	assert.NoError(t, JSONPath(doc, "user.age", 30))
	assert.NoError(t, JSONPath(doc, "tags.#", 2))

	err := JSONPath(doc, "user.name", "bob")
	assert.ErrorIs(t, err, checkers.ErrAssertion)
	assert.Equal(t, "expected user.name to be <bob>; got <alice>", err.Error())

	err = JSONPath(doc, "user.email", "x")
	assert.Equal(t, "expected user.email to exist", err.Error())

	err = JSONPath("{not json", "a", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, checkers.ErrAssertion)
}

func TestMatchesSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`

	assert.NoError(t, MatchesSchema(map[string]any{"name": "alice"}, schema))

	err := MatchesSchema(map[string]any{"age": 3}, schema)
	assert.ErrorIs(t, err, checkers.ErrAssertion)
	assert.Contains(t, err.Error(), "schema validation failed")
}

var errNotFound = errors.New("not found")

func TestExpectError(t *testing.T) {
	assert.NoError(t, ExpectError(errNotFound, func() error {
		return errors.Join(errors.New("lookup"), errNotFound)
	}))

	err := ExpectError(errNotFound, func() error { return nil })
	assert.Equal(t, "expected error <not found> to be returned...it wasn't", err.Error())

	err = ExpectError(errNotFound, func() error { return errors.New("timeout") })
	assert.Equal(t, "expected error <not found> to be returned...it wasn't; unexpected error: <timeout>", err.Error())
}

func TestExpectPanic(t *testing.T) {
	zero := 0
	assert.NoError(t, ExpectPanic("divide by zero", func() { _ = 1 / zero }))
	assert.NoError(t, ExpectPanic("", func() { panic("anything") }))

	err := ExpectPanic("", func() {})
	assert.ErrorIs(t, err, checkers.ErrAssertion)

	err = ExpectPanic("index out of range", func() { panic("other") })
	assert.Equal(t, "expected panic to be raised...it wasn't; unexpected panic: <other>", err.Error())
}
