package checkers

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

const (
	// GlobalSuiteName names the suite every generated test case joins.
	GlobalSuiteName        = "all"
	globalSuiteDescription = "Suite containing all tests."
)

// TestRun is the top-level container: the tests to run, run variables,
// run- and case-scope fixtures, suites and parameterizations keyed by test
// full name.
type TestRun struct {
	Name              string
	Tests             *registry.AutoKeyRegistry[string, *Test]
	Variables         *registry.Registry[string, any]
	Setup             *registry.AutoKeyRegistry[string, RunFixture]
	Teardown          *registry.AutoKeyRegistry[string, RunFixture]
	TestCaseSetup     *registry.AutoKeyRegistry[string, Fixture]
	TestCaseTeardown  *registry.AutoKeyRegistry[string, Fixture]
	Suites            *SuiteRegistry
	Parameterizations *registry.SuperRegistry[string, string, *Parameterization]
}

func NewTestRun(name string) *TestRun {
	r := &TestRun{
		Name:              name,
		Tests:             newTestRegistry(),
		Variables:         registry.New[string, any](),
		Setup:             registry.NewAutoKey(runFixtureName),
		Teardown:          registry.NewAutoKey(runFixtureName),
		TestCaseSetup:     registry.NewAutoKey(fixtureName),
		TestCaseTeardown:  registry.NewAutoKey(fixtureName),
		Parameterizations: registry.NewSuper[string](newParameterizationRegistry),
	}
	r.Suites = newSuiteRegistry(r)
	return r
}

// GenerateTestCases expands every test of the run into test cases using
// contexts bound to the run.
func (r *TestRun) GenerateTestCases() *registry.AutoKeyRegistry[string, *TestCase] {
	return r.GenerateTestCasesWith(DefaultRunContextFactory)
}

// GenerateTestCasesWith expands every test of the run, in registration
// order, into test cases keyed by full name. Each test is cloned, so the
// registered tests are never modified and generation can be repeated.
//
// For every clone, parameterizations declared on the test are added to the
// run's parameterizations, case-scope fixtures become run fixtures followed
// by the test's own, and the clone joins the suites it names. Each case
// joins its parameterization suites, the global suite, and every run suite
// holding its test or itself. Run variables are copied into each case
// context last and win over parameterization variables of the same name.
func (r *TestRun) GenerateTestCasesWith(factory RunContextFactory) *registry.AutoKeyRegistry[string, *TestCase] {
	if factory == nil {
		factory = DefaultRunContextFactory
	}
	caseFactory := func(tc *TestCase) *Context { return factory(tc, r) }

	global := NewTestSuite(GlobalSuiteName, globalSuiteDescription)
	out := newTestCaseRegistry()

	for _, original := range r.Tests.Values() {
		test := original.Clone()

		r.Parameterizations.Sub(test.fullName).Merge(test.parameterizations, true)

		test.setup.Clear()
		test.setup.Merge(r.TestCaseSetup, false)
		test.setup.Merge(original.setup, false)
		test.teardown.Clear()
		test.teardown.Merge(r.TestCaseTeardown, false)
		test.teardown.Merge(original.teardown, false)

		for name := range test.suiteNames.All() {
			r.Suites.Get(name).add(test)
		}

		params, _ := r.Parameterizations.Get(test.fullName)
		for _, tc := range test.GenerateTestCases(caseFactory, params).Values() {
			for _, name := range tc.suites.Keys() {
				s := r.Suites.Get(name)
				s.add(tc)
				tc.suites.Register(s)
			}

			global.add(tc)
			tc.suites.Register(global)

			for _, s := range r.Suites.Values() {
				if s.Has(test.fullName) || s.Has(tc.fullName) {
					s.add(tc)
					tc.suites.Register(s)
				}
			}

			tc.context.variables.Merge(r.Variables, true)
			out.Register(tc)
		}
	}
	return out
}

// RunSetup invokes the run setup fixtures in order, stopping at the first
// failure.
func (r *TestRun) RunSetup() error {
	for _, f := range r.Setup.Values() {
		if err := invokeRunFixture(f, r); err != nil {
			return fmt.Errorf("run setup %q: %w", f.name, err)
		}
	}
	return nil
}

// RunTeardown invokes every run teardown fixture and joins their errors.
func (r *TestRun) RunTeardown() error {
	var errs []error
	for _, f := range r.Teardown.Values() {
		if err := invokeRunFixture(f, r); err != nil {
			errs = append(errs, fmt.Errorf("run teardown %q: %w", f.name, err))
		}
	}
	return errors.Join(errs...)
}

func invokeRunFixture(f RunFixture, run *TestRun) error {
	if fail := capture(PhaseSetup, f.name, func() error { return f.Invoke(run) }); fail != nil {
		return fail.err
	}
	return nil
}
