package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/registry"
	"gopkg.in/yaml.v3"
)

// LoadSystemEnv returns the environment variables starting with prefix,
// with the prefix removed. An empty prefix returns nothing.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	if prefix == "" {
		return result
	}
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok || len(key) <= len(prefix) || !strings.HasPrefix(key, prefix) {
			continue
		}
		result[strings.ToLower(key[len(prefix):])] = value
	}
	return result
}

// ParseAssignments parses name=value pairs. Values are decoded as YAML
// scalars, so "port=8080" yields an int and "debug=true" a bool.
func ParseAssignments(pairs []string) (map[string]any, error) {
	result := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q: expected name=value", pair)
		}
		result[name] = parseScalar(raw)
	}
	return result, nil
}

func parseScalar(raw string) any {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	switch value.(type) {
	case nil, map[string]any, []any:
		return raw
	}
	return value
}

// MergeVariables merges sources in order; later sources win.
func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// ApplyVariables resolves vars with r and registers them as run variables
// in ascending name order. Existing run variables are replaced.
func ApplyVariables(run *checkers.TestRun, vars map[string]any, r *Resolver) error {
	ordered := registry.FromMap(vars)
	if r == nil {
		r = NewResolver()
	}
	r.SetVariables(vars)
	for name, value := range ordered.All() {
		resolved, err := r.ResolveValue(value)
		if err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
		run.Variables.Register(name, resolved)
	}
	return nil
}
