package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/checkers/packages/builtin"
	"github.com/abdul-hamid-achik/checkers/packages/logging"
)

var (
	variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	wholePattern    = regexp.MustCompile(`^\{\{\s*([^}$(]+?)\s*\}\}$`)
)

// Resolver expands {{...}} templates using variables, environment
// variables and builtin functions.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	funcs     *builtin.Registry
}

// NewResolver returns a resolver with no variables and the builtin functions.
func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// Funcs exposes the builtin function registry.
func (r *Resolver) Funcs() *builtin.Registry {
	return r.funcs
}

// SetVariables merges vars into the resolver's variables.
func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variables[name]
	return v, ok
}

// Resolve expands every template in input. Unknown variables are left in
// place and logged; failing function calls return an error.
func (r *Resolver) Resolve(input string) (string, error) {
	var firstErr error
	out := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		v, ok, err := r.eval(strings.TrimSpace(match[2 : len(match)-2]))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if !ok {
			return match
		}
		return fmt.Sprint(v)
	})
	return out, firstErr
}

// ResolveValue resolves strings inside v, walking slices and maps. A
// string made of a single {{name}} template becomes the variable value.
func (r *Resolver) ResolveValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		if m := wholePattern.FindStringSubmatch(val); m != nil {
			if resolved, ok := r.GetVariable(m[1]); ok {
				return resolved, nil
			}
		}
		return r.Resolve(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			resolved, err := r.ResolveValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			resolved, err := r.ResolveValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// HasUnresolvedVariables reports whether input still holds templates
// naming unknown variables.
func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.UnresolvedVariables(input)) > 0
}

// UnresolvedVariables lists the variable names in input that have no value.
// Function calls are not reported.
func (r *Resolver) UnresolvedVariables(input string) []string {
	var out []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if strings.HasPrefix(expr, "$") {
			continue
		}
		if _, ok := r.GetVariable(expr); !ok {
			out = append(out, expr)
		}
	}
	return out
}

func (r *Resolver) eval(expr string) (any, bool, error) {
	if name, ok := strings.CutPrefix(expr, "$"); ok {
		if strings.Contains(name, "(") {
			v, called, err := r.funcs.Call(name)
			if !called {
				logging.Warn("Resolver", "unknown function: %s", name)
			}
			return v, called && err == nil, err
		}
		if val, ok := os.LookupEnv(name); ok {
			return val, true, nil
		}
		logging.Warn("Resolver", "unresolved environment variable: $%s", name)
		return nil, false, nil
	}

	if v, ok := r.GetVariable(expr); ok {
		return v, true, nil
	}
	logging.Warn("Resolver", "unresolved variable: %s", expr)
	return nil, false, nil
}
