package checkers

import (
	"iter"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

// SuiteRegistry holds the suites of a TestRun keyed by name. Every suite
// it holds is attached to the run.
type SuiteRegistry struct {
	run    *TestRun
	suites *registry.AutoKeyRegistry[string, *TestSuite]
}

func newSuiteRegistry(run *TestRun) *SuiteRegistry {
	return &SuiteRegistry{
		run:    run,
		suites: registry.NewAutoKey(suiteName),
	}
}

// Get returns the suite called name, creating and attaching an empty one
// when it does not exist yet.
func (r *SuiteRegistry) Get(name string) *TestSuite {
	if s, ok := r.suites.Get(name); ok {
		return s
	}
	s := NewTestSuite(name, "")
	r.Register(s)
	return s
}

// Lookup returns the suite called name without creating it.
func (r *SuiteRegistry) Lookup(name string) (*TestSuite, bool) {
	return r.suites.Get(name)
}

// Register attaches s to the run and stores it under its name.
func (r *SuiteRegistry) Register(s *TestSuite) {
	r.suites.Register(s)
	s.Attach(r.run)
}

func (r *SuiteRegistry) Unregister(name string) {
	r.suites.Unregister(name)
}

func (r *SuiteRegistry) Has(name string) bool { return r.suites.Has(name) }
func (r *SuiteRegistry) Len() int             { return r.suites.Len() }
func (r *SuiteRegistry) Names() []string      { return r.suites.Keys() }

func (r *SuiteRegistry) Values() []*TestSuite {
	return r.suites.Values()
}

func (r *SuiteRegistry) All() iter.Seq2[string, *TestSuite] {
	return r.suites.All()
}
