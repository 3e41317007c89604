package checkers

import (
	"fmt"
	"iter"
	"regexp"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
)

// SuitesVariable is the reserved variable naming extra suites for the
// test cases built from a parameterization.
const SuitesVariable = "test_suites"

var parameterizationNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidParameterizationName reports whether name can be appended to a test
// name as an identifier suffix.
func ValidParameterizationName(name string) bool {
	return parameterizationNamePattern.MatchString(name)
}

// Parameterization is a named set of variables for one test case.
type Parameterization struct {
	name      string
	variables *registry.Registry[string, any]
	suites    *registry.Set[string]
}

// NewParameterization builds a parameterization with variables registered
// in ascending key order.
func NewParameterization(name string, variables map[string]any) *Parameterization {
	return NewParameterizationFrom(name, registry.FromMap(variables).All())
}

// NewParameterizationFrom builds a parameterization keeping the order of
// variables. A test_suites value adds suites and is also kept as a variable.
func NewParameterizationFrom(name string, variables iter.Seq2[string, any]) *Parameterization {
	p := &Parameterization{
		name:      name,
		variables: registry.New[string, any](),
		suites:    registry.NewSet[string](),
	}
	if variables == nil {
		return p
	}
	for k, v := range variables {
		if k == SuitesVariable {
			for _, s := range suiteNames(v) {
				p.suites.Add(s)
			}
		}
		p.variables.Register(k, v)
	}
	return p
}

func suiteNames(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

func (p *Parameterization) Name() string { return p.name }

func (p *Parameterization) Variables() *registry.Registry[string, any] { return p.variables }

func (p *Parameterization) Suites() *registry.Set[string] { return p.suites }

func parameterizationName(p *Parameterization) string { return p.name }

func newParameterizationRegistry() *registry.AutoKeyRegistry[string, *Parameterization] {
	return registry.NewAutoKey(parameterizationName)
}
