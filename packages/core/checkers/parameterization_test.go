package checkers

import (
	"testing"

	"github.com/abdul-hamid-achik/checkers/packages/registry"
	"github.com/stretchr/testify/assert"
)

func TestNewParameterization(t *testing.T) {
	p := NewParameterization("1_1_2", map[string]any{"y": 1, "x": 1, "total": 2})

	assert.Equal(t, "1_1_2", p.Name())
	assert.Equal(t, []string{"total", "x", "y"}, p.Variables().Keys())
	assert.Equal(t, 0, p.Suites().Len())
}

func TestNewParameterization_TestSuites(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		suites []string
	}{
		{name: "string slice", value: []string{"smoke", "math"}, suites: []string{"smoke", "math"}},
		{name: "decoded list", value: []any{"smoke", "math"}, suites: []string{"smoke", "math"}},
		{name: "single string", value: "smoke", suites: []string{"smoke"}},
		{name: "string is one name", value: "smoke math", suites: []string{"smoke math"}},
		{name: "unsupported value", value: 42, suites: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParameterization("p", map[string]any{SuitesVariable: tt.value, "x": 1})

			if tt.suites == nil {
				assert.Equal(t, 0, p.Suites().Len())
			} else {
				assert.Equal(t, tt.suites, p.Suites().Items())
			}
			v, ok := p.Variables().Get(SuitesVariable)
			assert.True(t, ok, "test_suites stays a variable")
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestNewParameterizationFrom_KeepsOrder(t *testing.T) {
	vars := registry.New[string, any]()
	vars.Register("z", 1)
	vars.Register("a", 2)

	p := NewParameterizationFrom("ordered", vars.All())
	assert.Equal(t, []string{"z", "a"}, p.Variables().Keys())

	empty := NewParameterizationFrom("empty", nil)
	assert.Equal(t, 0, empty.Variables().Len())
}

func TestValidParameterizationName(t *testing.T) {
	assert.True(t, ValidParameterizationName("1_1_2"))
	assert.True(t, ValidParameterizationName("Negative"))
	assert.False(t, ValidParameterizationName(""))
	assert.False(t, ValidParameterizationName("has space"))
	assert.False(t, ValidParameterizationName("dotted.name"))
}
