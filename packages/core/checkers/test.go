package checkers

import (
	"fmt"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

// Test is a declared test: a callable body plus the metadata needed to
// expand it into test cases. Tests are not mutated by generation.
type Test struct {
	name              string
	fullName          string
	description       string
	callable          Callable
	parameterizations *registry.AutoKeyRegistry[string, *Parameterization]
	setup             *registry.AutoKeyRegistry[string, Fixture]
	teardown          *registry.AutoKeyRegistry[string, Fixture]
	suiteNames        *registry.Set[string]
}

type testBuilder struct {
	description string
	args        []string
	defaults    map[string]any
	suites      []string
	setup       []Fixture
	teardown    []Fixture
	params      []*Parameterization
}

// TestOption configures a Test. Options apply in the order given, so a
// later fixture lands after an earlier one.
type TestOption func(*testBuilder)

func WithDescription(description string) TestOption {
	return func(b *testBuilder) {
		b.description = description
	}
}

// WithArgs names the parameters of the test function, in order. Each name
// is looked up in the test case context when the test runs.
func WithArgs(names ...string) TestOption {
	return func(b *testBuilder) {
		b.args = append(b.args, names...)
	}
}

// WithDefault makes the named parameter optional.
func WithDefault(name string, value any) TestOption {
	return func(b *testBuilder) {
		if b.defaults == nil {
			b.defaults = make(map[string]any)
		}
		b.defaults[name] = value
	}
}

func WithSuites(names ...string) TestOption {
	return func(b *testBuilder) {
		b.suites = append(b.suites, names...)
	}
}

func WithSetup(fixtures ...Fixture) TestOption {
	return func(b *testBuilder) {
		b.setup = append(b.setup, fixtures...)
	}
}

func WithTeardown(fixtures ...Fixture) TestOption {
	return func(b *testBuilder) {
		b.teardown = append(b.teardown, fixtures...)
	}
}

func WithParameterizations(params ...*Parameterization) TestOption {
	return func(b *testBuilder) {
		b.params = append(b.params, params...)
	}
}

// WithParams adds one parameterization per entry of sets, in ascending
// name order.
func WithParams(sets map[string]map[string]any) TestOption {
	return func(b *testBuilder) {
		for name, vars := range registry.FromMap(sets).All() {
			b.params = append(b.params, NewParameterization(name, vars))
		}
	}
}

// NewTest declares a test. fn is either a Callable or a Go function
// returning nothing or an error. module may be empty.
func NewTest(module, name string, fn any, opts ...TestOption) (*Test, error) {
	if name == "" {
		return nil, fmt.Errorf("test name is required")
	}
	b := &testBuilder{}
	for _, opt := range opts {
		opt(b)
	}

	callable, ok := fn.(Callable)
	if !ok {
		var err error
		callable, err = NewFuncCallable(fn, b.args, b.defaults)
		if err != nil {
			return nil, fmt.Errorf("test %s: %w", joinName(module, name), err)
		}
	}

	t := &Test{
		name:              name,
		fullName:          joinName(module, name),
		description:       b.description,
		callable:          callable,
		parameterizations: newParameterizationRegistry(),
		setup:             registry.NewAutoKey(fixtureName),
		teardown:          registry.NewAutoKey(fixtureName),
		suiteNames:        registry.NewSet(b.suites...),
	}
	for _, f := range b.setup {
		t.setup.Register(f)
	}
	for _, f := range b.teardown {
		t.teardown.Register(f)
	}
	for _, p := range b.params {
		t.parameterizations.Register(p)
	}
	return t, nil
}

// MustTest is like NewTest but panics on error.
func MustTest(module, name string, fn any, opts ...TestOption) *Test {
	t, err := NewTest(module, name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func joinName(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}

func (t *Test) Name() string        { return t.name }
func (t *Test) FullName() string    { return t.fullName }
func (t *Test) Description() string { return t.description }
func (t *Test) Callable() Callable  { return t.callable }

func (t *Test) Parameterizations() *registry.AutoKeyRegistry[string, *Parameterization] {
	return t.parameterizations
}

func (t *Test) Setup() *registry.AutoKeyRegistry[string, Fixture]    { return t.setup }
func (t *Test) Teardown() *registry.AutoKeyRegistry[string, Fixture] { return t.teardown }
func (t *Test) SuiteNames() *registry.Set[string]                    { return t.suiteNames }

// RequiredVariables lists the parameters without defaults, in declaration
// order.
func (t *Test) RequiredVariables() []string {
	var out []string
	for _, p := range t.callable.Parameters() {
		if !p.HasDefault {
			out = append(out, p.Name)
		}
	}
	return out
}

// Invoke resolves the test parameters from ctx and calls the body.
func (t *Test) Invoke(ctx *Context) error {
	params := t.callable.Parameters()
	args := make([]any, len(params))
	for i, p := range params {
		v, ok := ctx.Var(p.Name)
		switch {
		case ok:
			args[i] = v
		case p.HasDefault:
			args[i] = p.Default
		default:
			name := t.fullName
			if ctx.testCase != nil {
				name = ctx.testCase.FullName()
			}
			return &MissingVariableError{Name: p.Name, Test: name}
		}
	}
	return t.callable.Call(args)
}

// Clone copies the registries and suite names of t. The callable is
// shared.
func (t *Test) Clone() *Test {
	return &Test{
		name:              t.name,
		fullName:          t.fullName,
		description:       t.description,
		callable:          t.callable,
		parameterizations: t.parameterizations.Clone(),
		setup:             t.setup.Clone(),
		teardown:          t.teardown.Clone(),
		suiteNames:        t.suiteNames.Clone(),
	}
}

// GenerateTestCases expands t into test cases. Without parameterizations
// there is a single case named after the test; otherwise one case per
// parameterization, in registration order, suffixed with its name.
// Suites named by a parameterization are attached as unbound placeholders.
func (t *Test) GenerateTestCases(factory ContextFactory, params *registry.AutoKeyRegistry[string, *Parameterization]) *registry.AutoKeyRegistry[string, *TestCase] {
	if factory == nil {
		factory = DefaultContextFactory
	}
	cases := newTestCaseRegistry()
	if params == nil || params.Len() == 0 {
		cases.Register(NewTestCase(t, factory, "", "", t.description))
		return cases
	}
	for _, p := range params.Values() {
		tc := NewTestCase(t, factory,
			t.name+"_"+p.name,
			t.fullName+"_"+p.name,
			t.description)
		tc.context.variables.Merge(p.variables, true)
		for s := range p.suites.All() {
			tc.suites.Register(NewTestSuite(s, ""))
		}
		cases.Register(tc)
	}
	return cases
}

func testFullName(t *Test) string { return t.fullName }

func newTestRegistry() *registry.AutoKeyRegistry[string, *Test] {
	return registry.NewAutoKey(testFullName)
}
