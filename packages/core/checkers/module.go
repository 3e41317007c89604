package checkers

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

// Module is an explicit namespace of test declarations. Bindings are
// recorded in declaration order.
type Module struct {
	name     string
	doc      string
	bindings *registry.Registry[string, any]
	imports  *registry.AutoKeyRegistry[string, *Module]
}

// NewModule returns an empty module.
func NewModule(name, doc string) *Module {
	return &Module{
		name:     name,
		doc:      doc,
		bindings: registry.New[string, any](),
		imports:  registry.NewAutoKey(moduleName),
	}
}

func (m *Module) Name() string { return m.name }
func (m *Module) Doc() string  { return m.doc }

// ShortName is the last dot-separated segment of the module name.
func (m *Module) ShortName() string {
	if i := strings.LastIndex(m.name, "."); i >= 0 {
		return m.name[i+1:]
	}
	return m.name
}

// Bind records value under name at the top level of the module.
func (m *Module) Bind(name string, value any) {
	m.bindings.Register(name, value)
}

// Lookup returns the value bound to name.
func (m *Module) Lookup(name string) (any, bool) {
	return m.bindings.Get(name)
}

func (m *Module) Bindings() *registry.Registry[string, any] {
	return m.bindings
}

// Import records that m depends on other.
func (m *Module) Import(other *Module) {
	m.imports.Register(other)
}

// Imports lists the imported modules in import order.
func (m *Module) Imports() []*Module {
	return m.imports.Values()
}

// AddTest declares a test in the module and binds it under its name.
func (m *Module) AddTest(name string, fn any, opts ...TestOption) (*Test, error) {
	t, err := NewTest(m.name, name, fn, opts...)
	if err != nil {
		return nil, err
	}
	m.Bind(name, t)
	return t, nil
}

// MustTest is like AddTest but panics on error. It is meant for package
// level declarations.
func (m *Module) MustTest(name string, fn any, opts ...TestOption) *Test {
	t, err := m.AddTest(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func moduleName(m *Module) string { return m.name }

// TestDefinition is a test that has not been instantiated in a module
// yet. It can be instantiated into any number of modules.
type TestDefinition struct {
	Name    string
	Func    any
	Options []TestOption
}

// Define builds a TestDefinition.
func Define(name string, fn any, opts ...TestOption) TestDefinition {
	return TestDefinition{Name: name, Func: fn, Options: opts}
}

// Instantiate declares the definition as a test of m.
func (d TestDefinition) Instantiate(m *Module) (*Test, error) {
	return m.AddTest(d.Name, d.Func, d.Options...)
}

// TestsFromModule collects the tests bound at the top level of m, in
// declaration order. Tests nested inside other values are not collected.
// Following imports and loading uninstantiated definitions are not
// supported.
func TestsFromModule(m *Module, includeImports bool) (*registry.AutoKeyRegistry[string, *Test], error) {
	if includeImports {
		return nil, &NotSupportedError{Op: "load tests from " + m.name, Reason: "following imports is not supported"}
	}
	tests := newTestRegistry()
	for name, value := range m.bindings.All() {
		switch v := value.(type) {
		case *Test:
			tests.Register(v)
		case TestDefinition, *TestDefinition:
			return nil, &NotSupportedError{
				Op:     fmt.Sprintf("load %s.%s", m.name, name),
				Reason: "test definitions must be instantiated before loading",
			}
		}
	}
	return tests, nil
}

// NewTestRunFromModule creates a run named after m holding its tests.
func NewTestRunFromModule(m *Module) (*TestRun, error) {
	tests, err := TestsFromModule(m, false)
	if err != nil {
		return nil, err
	}
	run := NewTestRun(m.name)
	run.Tests.Merge(tests, true)
	return run, nil
}

// NewTestSuiteFromModule creates a suite holding the tests of m. name
// defaults to the module's short name and the description to its doc.
func NewTestSuiteFromModule(m *Module, name string) (*TestSuite, error) {
	tests, err := TestsFromModule(m, false)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = m.ShortName()
	}
	s := NewTestSuite(name, m.doc)
	for _, t := range tests.Values() {
		s.Register(t)
	}
	return s, nil
}
