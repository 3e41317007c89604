package checkers

import "fmt"

// FixtureKind tells how a fixture is invoked.
type FixtureKind int

const (
	// FixtureNullary fixtures take no arguments.
	FixtureNullary FixtureKind = iota
	// FixtureContext fixtures receive the test case context.
	FixtureContext
)

func (k FixtureKind) String() string {
	switch k {
	case FixtureNullary:
		return "nullary"
	case FixtureContext:
		return "context"
	default:
		return fmt.Sprintf("FixtureKind(%d)", int(k))
	}
}

// Fixture is a per-test-case setup or teardown step. Fixtures are keyed by
// name in the registries that hold them.
type Fixture struct {
	name       string
	kind       FixtureKind
	nullary    func() error
	contextual func(*Context) error
}

// NewFixture returns a fixture that takes no arguments.
func NewFixture(name string, fn func() error) Fixture {
	return Fixture{name: name, kind: FixtureNullary, nullary: fn}
}

// NewContextFixture returns a fixture that receives the case context.
func NewContextFixture(name string, fn func(*Context) error) Fixture {
	return Fixture{name: name, kind: FixtureContext, contextual: fn}
}

func (f Fixture) Name() string      { return f.name }
func (f Fixture) Kind() FixtureKind { return f.kind }

// Invoke calls the fixture, passing ctx only to context fixtures.
func (f Fixture) Invoke(ctx *Context) error {
	switch f.kind {
	case FixtureContext:
		if f.contextual == nil {
			return nil
		}
		return f.contextual(ctx)
	default:
		if f.nullary == nil {
			return nil
		}
		return f.nullary()
	}
}

func fixtureName(f Fixture) string { return f.name }

// RunFixture is a run-scope setup or teardown step.
type RunFixture struct {
	name string
	fn   func(*TestRun) error
}

// NewRunFixture returns a run-scope fixture.
func NewRunFixture(name string, fn func(*TestRun) error) RunFixture {
	return RunFixture{name: name, fn: fn}
}

func (f RunFixture) Name() string { return f.name }

// Invoke calls the fixture with run. A nil function does nothing.
func (f RunFixture) Invoke(run *TestRun) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(run)
}

func runFixtureName(f RunFixture) string { return f.name }
