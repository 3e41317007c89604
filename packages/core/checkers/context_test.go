package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	run := NewTestRun("run")
	ctx := NewContext(nil, run, map[string]any{"b": 2, "a": 1})

	assert.Same(t, run, ctx.TestRun())
	assert.Nil(t, ctx.TestCase())
	assert.Equal(t, []string{"a", "b", ContextVariable}, ctx.Variables().Keys())

	self, ok := ctx.Var(ContextVariable)
	require.True(t, ok)
	assert.Same(t, ctx, self)
}

func TestContext_FactoryCalledOnce(t *testing.T) {
	test := MustTest("m", "t", func() {})
	calls := 0
	tc := NewTestCase(test, func(tc *TestCase) *Context {
		calls++
		return NewContext(tc, nil, map[string]any{"x": 1})
	}, "", "", "")

	assert.Equal(t, 1, calls)
	assert.Same(t, tc, tc.Context().TestCase())
	v, _ := tc.Context().Var("x")
	assert.Equal(t, 1, v)
}

func TestLookup(t *testing.T) {
	ctx := NewContext(nil, nil, map[string]any{"name": "alice", "age": 30})

	name, err := Lookup[string](ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = Lookup[string](ctx, "age")
	require.Error(t, err)

	_, err = Lookup[int](ctx, "missing")
	assert.ErrorIs(t, err, ErrMissingVariable)

	ctx.SetVar("missing", 7)
	n, err := Lookup[int](ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
