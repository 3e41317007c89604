package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Declarations(t *testing.T) {
	m := NewModule("checkers.examples.math_test", "Math checks.")
	add := m.MustTest("add", func() {})
	sub, err := m.AddTest("subtract", func() {})
	require.NoError(t, err)
	m.Bind("helper", 42)
	m.Bind("nested", []*Test{MustTest("other", "nested", func() {})})

	assert.Equal(t, "math_test", m.ShortName())
	assert.Equal(t, "checkers.examples.math_test.add", add.FullName())

	tests, err := TestsFromModule(m, false)
	require.NoError(t, err)
	assert.Equal(t, []*Test{add, sub}, tests.Values(), "only top-level tests are collected")

	v, ok := m.Lookup("helper")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, err = m.AddTest("broken", 42)
	require.Error(t, err)
	assert.False(t, m.Bindings().Has("broken"))
}

func TestTestsFromModule_NotSupported(t *testing.T) {
	m := NewModule("m", "")
	m.Import(NewModule("dep", ""))

	_, err := TestsFromModule(m, true)
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.Len(t, m.Imports(), 1)

	m.Bind("pending", Define("pending", func() {}))
	_, err = TestsFromModule(m, false)
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.Contains(t, err.Error(), "m.pending")
}

func TestTestDefinition_Instantiate(t *testing.T) {
	def := Define("shared", func(x int) {}, WithArgs("x"))

	a := NewModule("a", "")
	b := NewModule("b", "")
	ta, err := def.Instantiate(a)
	require.NoError(t, err)
	tb, err := def.Instantiate(b)
	require.NoError(t, err)

	assert.Equal(t, "a.shared", ta.FullName())
	assert.Equal(t, "b.shared", tb.FullName())
	assert.Equal(t, []string{"x"}, tb.RequiredVariables())
}

func TestNewTestRunFromModule(t *testing.T) {
	m := NewModule("pkg.calc_test", "Calculator.")
	m.MustTest("add", func() {})

	run, err := NewTestRunFromModule(m)
	require.NoError(t, err)
	assert.Equal(t, "pkg.calc_test", run.Name)
	assert.Equal(t, []string{"pkg.calc_test.add"}, run.Tests.Keys())
}

func TestNewTestSuiteFromModule(t *testing.T) {
	m := NewModule("pkg.calc_test", "Calculator.")
	m.MustTest("add", func() {})

	s, err := NewTestSuiteFromModule(m, "")
	require.NoError(t, err)
	assert.Equal(t, "calc_test", s.Name())
	assert.Equal(t, "Calculator.", s.Description())
	assert.True(t, s.Has("pkg.calc_test.add"))

	s, err = NewTestSuiteFromModule(m, "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", s.Name())

	m.Bind("pending", Define("pending", func() {}))
	_, err = NewTestSuiteFromModule(m, "")
	assert.ErrorIs(t, err, ErrNotSupported)
}
