package checkers

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

// TestCase is one runnable instance of a Test.
type TestCase struct {
	test        *Test
	name        string
	fullName    string
	description string
	context     *Context
	suites      *registry.AutoKeyRegistry[string, *TestSuite]
}

// NewTestCase creates a case for test. Empty name and fullName default to
// the test's own. factory is called exactly once, after the case exists.
func NewTestCase(test *Test, factory ContextFactory, name, fullName, description string) *TestCase {
	if name == "" {
		name = test.name
	}
	if fullName == "" {
		fullName = test.fullName
	}
	if factory == nil {
		factory = DefaultContextFactory
	}
	tc := &TestCase{
		test:        test,
		name:        name,
		fullName:    fullName,
		description: description,
		suites:      registry.NewAutoKey(suiteName),
	}
	tc.context = factory(tc)
	if tc.context == nil {
		tc.context = DefaultContextFactory(tc)
	}
	return tc
}

func (tc *TestCase) Test() *Test         { return tc.test }
func (tc *TestCase) Name() string        { return tc.name }
func (tc *TestCase) FullName() string    { return tc.fullName }
func (tc *TestCase) Description() string { return tc.description }
func (tc *TestCase) Context() *Context   { return tc.context }

// TestSuites holds the suites the case belongs to, keyed by suite name.
func (tc *TestCase) TestSuites() *registry.AutoKeyRegistry[string, *TestSuite] {
	return tc.suites
}

// Run executes setup fixtures in order, then the test body, then every
// teardown fixture. A failing setup skips the remaining setup and the body;
// teardown always runs. The earliest failure determines the result.
// Every call executes the case again.
func (tc *TestCase) Run() *TestResult {
	start := time.Now()
	var first *failure

	for _, f := range tc.test.setup.Values() {
		if fail := capture(PhaseSetup, f.name, func() error { return f.Invoke(tc.context) }); fail != nil {
			first = fail
			break
		}
	}
	if first == nil {
		first = capture(PhaseTest, tc.test.name, func() error { return tc.test.Invoke(tc.context) })
	}
	for _, f := range tc.test.teardown.Values() {
		if fail := capture(PhaseTeardown, f.name, func() error { return f.Invoke(tc.context) }); fail != nil && first == nil {
			first = fail
		}
	}

	return newTestResult(tc.context, first, time.Since(start))
}

type failure struct {
	phase Phase
	step  string
	err   error
	stack []byte
}

func capture(phase Phase, step string, fn func() error) (fail *failure) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			fail = &failure{
				phase: phase,
				step:  step,
				err:   &PanicError{Value: r, Stack: stack},
				stack: stack,
			}
		}
	}()
	if err := fn(); err != nil {
		if isNilValue(err) {
			err = fmt.Errorf("%s %q returned a nil %T as a non-nil error", phase, step, err)
		}
		return &failure{phase: phase, step: step, err: err}
	}
	return nil
}

// isNilValue reports whether err is an interface holding a nil pointer,
// map, slice, channel or function.
func isNilValue(err error) bool {
	rv := reflect.ValueOf(err)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// message returns the failure text. An Error method that panics yields a
// description of the panic instead.
func (f *failure) message() (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%s %q failed; %T.Error panicked: %v", f.phase, f.step, f.err, r)
		}
	}()
	if msg = f.err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("%s %q failed", f.phase, f.step)
}

func testCaseFullName(tc *TestCase) string { return tc.fullName }

func newTestCaseRegistry() *registry.AutoKeyRegistry[string, *TestCase] {
	return registry.NewAutoKey(testCaseFullName)
}
