package checkers

import (
	"fmt"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

// ContextVariable is the variable under which a Context exposes itself.
const ContextVariable = "context"

// Context carries the variables a test case runs with.
type Context struct {
	testCase  *TestCase
	testRun   *TestRun
	variables *registry.Registry[string, any]
}

// ContextFactory builds the context for a freshly created test case.
type ContextFactory func(tc *TestCase) *Context

// RunContextFactory builds test case contexts during TestRun generation.
type RunContextFactory func(tc *TestCase, run *TestRun) *Context

// NewContext creates a context for tc. variables are registered in
// ascending key order; run may be nil.
func NewContext(tc *TestCase, run *TestRun, variables map[string]any) *Context {
	ctx := &Context{
		testCase:  tc,
		testRun:   run,
		variables: registry.FromMap(variables),
	}
	ctx.variables.Register(ContextVariable, ctx)
	return ctx
}

// DefaultContextFactory creates an empty context without a run.
func DefaultContextFactory(tc *TestCase) *Context {
	return NewContext(tc, nil, nil)
}

// DefaultRunContextFactory creates an empty context bound to run.
func DefaultRunContextFactory(tc *TestCase, run *TestRun) *Context {
	return NewContext(tc, run, nil)
}

func (c *Context) TestCase() *TestCase { return c.testCase }

// TestRun returns the run the context belongs to, or nil.
func (c *Context) TestRun() *TestRun { return c.testRun }

func (c *Context) Variables() *registry.Registry[string, any] { return c.variables }

func (c *Context) Var(name string) (any, bool) {
	return c.variables.Get(name)
}

func (c *Context) SetVar(name string, value any) {
	c.variables.Register(name, value)
}

// Lookup returns the variable name converted to T.
func Lookup[T any](ctx *Context, name string) (T, error) {
	var zero T
	v, ok := ctx.Var(name)
	if !ok {
		test := ""
		if ctx.testCase != nil {
			test = ctx.testCase.FullName()
		}
		return zero, &MissingVariableError{Name: name, Test: test}
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("variable %q: %T is not %T", name, v, zero)
	}
	return typed, nil
}
