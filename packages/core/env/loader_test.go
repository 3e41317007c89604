package env

import (
	"testing"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSystemEnv(t *testing.T) {
	t.Setenv("CHECKERS_VAR_HOST", "example.com")
	t.Setenv("CHECKERS_VAR_", "ignored")
	t.Setenv("OTHER_HOST", "ignored")

	vars := LoadSystemEnv("CHECKERS_VAR_")
	assert.Equal(t, "example.com", vars["host"])
	assert.NotContains(t, vars, "")
	assert.Empty(t, LoadSystemEnv(""))
}

func TestParseAssignments(t *testing.T) {
	vars, err := ParseAssignments([]string{
		"port=8080",
		"debug=true",
		"name=alice",
		"ratio=0.5",
		"url=http://localhost:80",
		"pair=a: b",
		"empty=",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"port":  8080,
		"debug": true,
		"name":  "alice",
		"ratio": 0.5,
		"url":   "http://localhost:80",
		"pair":  "a: b",
		"empty": "",
	}, vars)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"=1"})
	assert.Error(t, err)
}

func TestMergeVariables(t *testing.T) {
	merged := MergeVariables(
		map[string]any{"a": 1, "b": 1},
		nil,
		map[string]any{"b": 2},
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, merged)
}

func TestApplyVariables(t *testing.T) {
	run := checkers.NewTestRun("run")
	run.Variables.Register("existing", "old")

	err := ApplyVariables(run, map[string]any{
		"host":     "localhost",
		"port":     8080,
		"url":      "http://{{host}}:{{port}}",
		"existing": "new",
		"copy":     "{{port}}",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"existing", "copy", "host", "port", "url"}, run.Variables.Keys())
	url, _ := run.Variables.Get("url")
	assert.Equal(t, "http://localhost:8080", url)
	port, _ := run.Variables.Get("copy")
	assert.Equal(t, 8080, port, "whole templates keep the value type")
	existing, _ := run.Variables.Get("existing")
	assert.Equal(t, "new", existing)
}

func TestApplyVariables_FunctionError(t *testing.T) {
	run := checkers.NewTestRun("run")
	err := ApplyVariables(run, map[string]any{"n": "{{$random(5, 1)}}"}, nil)
	assert.ErrorContains(t, err, "variable n")
}
