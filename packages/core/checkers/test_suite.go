package checkers

import (
	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

// DefaultSuiteDescription is used when a suite is created without one.
const DefaultSuiteDescription = "No description."

// Member is anything a suite can hold: a *Test or a *TestCase.
type Member interface {
	FullName() string
}

// TestSuite is a named, ordered group of tests and test cases.
type TestSuite struct {
	name        string
	description string
	members     *registry.AutoKeyRegistry[string, Member]
	run         *TestRun
}

// NewTestSuite returns an empty suite. An empty description falls back to
// DefaultSuiteDescription.
func NewTestSuite(name, description string) *TestSuite {
	if description == "" {
		description = DefaultSuiteDescription
	}
	return &TestSuite{
		name:        name,
		description: description,
		members:     registry.NewAutoKey(memberFullName),
	}
}

func (s *TestSuite) Name() string        { return s.name }
func (s *TestSuite) Description() string { return s.description }

// TestRun returns the run the suite is attached to, or nil.
func (s *TestSuite) TestRun() *TestRun { return s.run }

// Attach binds the suite to run and registers every Test it holds into the
// run's tests.
func (s *TestSuite) Attach(run *TestRun) {
	s.run = run
	if run == nil {
		return
	}
	for _, m := range s.members.Values() {
		if t, ok := m.(*Test); ok {
			run.Tests.Register(t)
		}
	}
}

// Register adds m to the suite. Tests registered on an attached suite are
// also registered into its run.
func (s *TestSuite) Register(m Member) {
	s.members.Register(m)
	if t, ok := m.(*Test); ok && s.run != nil {
		s.run.Tests.Register(t)
	}
}

func (s *TestSuite) add(m Member) {
	s.members.Register(m)
}

func (s *TestSuite) Unregister(fullName string) {
	s.members.Unregister(fullName)
}

func (s *TestSuite) Has(fullName string) bool {
	return s.members.Has(fullName)
}

func (s *TestSuite) Get(fullName string) (Member, bool) {
	return s.members.Get(fullName)
}

func (s *TestSuite) Len() int {
	return s.members.Len()
}

// Members lists tests and test cases in registration order.
func (s *TestSuite) Members() []Member {
	return s.members.Values()
}

// Tests returns the members that are tests.
func (s *TestSuite) Tests() []*Test {
	var out []*Test
	for _, m := range s.members.Values() {
		if t, ok := m.(*Test); ok {
			out = append(out, t)
		}
	}
	return out
}

// TestCases returns the members that are test cases.
func (s *TestSuite) TestCases() []*TestCase {
	var out []*TestCase
	for _, m := range s.members.Values() {
		if tc, ok := m.(*TestCase); ok {
			out = append(out, tc)
		}
	}
	return out
}

func memberFullName(m Member) string { return m.FullName() }

func suiteName(s *TestSuite) string { return s.name }
