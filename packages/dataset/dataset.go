package dataset

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/env"
	"github.com/abdul-hamid-achik/checkers/packages/logging"
	"github.com/abdul-hamid-achik/checkers/packages/registry"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const subsystem = "Dataset"

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Set holds the parameterizations for one test.
type Set struct {
	Test              string
	Parameterizations []*checkers.Parameterization
}

type File struct {
	Path string
	Sets []*Set
}

// ParseSpec splits "path#selector" into its parts.
func ParseSpec(spec string) (path, selector string) {
	path, selector, _ = strings.Cut(spec, "#")
	return path, selector
}

// DetectFormat picks the format from the file extension, falling back to
// sniffing the content.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	if gjson.ValidBytes(data) {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads, validates and parses the data file named by spec.
// String values are resolved with r when it is not nil.
func LoadFile(spec string, r *env.Resolver) (*File, error) {
	path, selector := ParseSpec(spec)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	format := DetectFormat(path, data)
	if selector != "" {
		if format != FormatJSON {
			return nil, fmt.Errorf("%s: selectors are only supported for JSON files", path)
		}
		result := gjson.GetBytes(data, selector)
		if !result.Exists() {
			return nil, fmt.Errorf("%s: selector %q matched nothing", path, selector)
		}
		data = []byte(result.Raw)
	}

	sets, err := Parse(spec, data, format, r)
	if err != nil {
		return nil, err
	}
	logging.Debug(subsystem, "loaded %d tests from %s", len(sets), spec)
	return &File{Path: spec, Sets: sets}, nil
}

// Validate checks the data file named by spec without resolving values.
func Validate(spec string) error {
	_, err := LoadFile(spec, nil)
	return err
}

// Parse validates and decodes a data document. name is used in errors.
func Parse(name string, data []byte, format Format, r *env.Resolver) ([]*Set, error) {
	switch format {
	case FormatJSON:
		return parseJSON(name, data, r)
	case FormatYAML:
		return parseYAML(name, data, r)
	default:
		return nil, fmt.Errorf("unknown data format %q", format)
	}
}

func parseJSON(name string, data []byte, r *env.Resolver) ([]*Set, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: invalid JSON", name)
	}
	if err := validate(name, gojsonschema.NewBytesLoader(data)); err != nil {
		return nil, err
	}

	var sets []*Set
	var errs []error
	gjson.ParseBytes(data).ForEach(func(test, params gjson.Result) bool {
		set := &Set{Test: test.String()}
		params.ForEach(func(pname, vars gjson.Result) bool {
			p, err := newParameterization(pname.String(), jsonPairs(vars), r)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %s.%s: %w", name, set.Test, pname.String(), err))
				return false
			}
			set.Parameterizations = append(set.Parameterizations, p)
			return true
		})
		sets = append(sets, set)
		return len(errs) == 0
	})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sets, nil
}

func jsonPairs(obj gjson.Result) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		obj.ForEach(func(k, v gjson.Result) bool {
			return yield(k.String(), v.Value())
		})
	}
}

func parseYAML(name string, data []byte, r *env.Resolver) ([]*Set, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: invalid YAML: %w", name, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	// Keys are taken verbatim so names like 1_1_2 stay strings.
	type entry struct {
		test  string
		pname string
		vars  *registry.Registry[string, any]
	}
	var entries []entry
	var order []string
	generic := make(map[string]any)
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ValidationError{Path: name, Problems: []string{"(root): Invalid type. Expected: object"}}
	}
	for test, params := range mappingPairs(root) {
		order = append(order, test.Value)
		if params.Kind != yaml.MappingNode {
			generic[test.Value] = params.Value
			continue
		}
		byName := make(map[string]any)
		for pname, vars := range mappingPairs(params) {
			if vars.Kind != yaml.MappingNode {
				byName[pname.Value] = vars.Value
				continue
			}
			pairs, err := yamlPairs(vars)
			if err != nil {
				return nil, fmt.Errorf("%s: %s.%s: %w", name, test.Value, pname.Value, err)
			}
			flat := make(map[string]any, pairs.Len())
			for k, v := range pairs.All() {
				flat[k] = v
			}
			byName[pname.Value] = flat
			entries = append(entries, entry{test: test.Value, pname: pname.Value, vars: pairs})
		}
		generic[test.Value] = byName
	}
	if err := validate(name, gojsonschema.NewGoLoader(generic)); err != nil {
		return nil, err
	}

	sets := make(map[string]*Set, len(order))
	var out []*Set
	for _, test := range order {
		if _, ok := sets[test]; !ok {
			sets[test] = &Set{Test: test}
			out = append(out, sets[test])
		}
	}
	for _, e := range entries {
		p, err := newParameterization(e.pname, e.vars.All(), r)
		if err != nil {
			return nil, fmt.Errorf("%s: %s.%s: %w", name, e.test, e.pname, err)
		}
		sets[e.test].Parameterizations = append(sets[e.test].Parameterizations, p)
	}
	return out, nil
}

func mappingPairs(node *yaml.Node) iter.Seq2[*yaml.Node, *yaml.Node] {
	return func(yield func(*yaml.Node, *yaml.Node) bool) {
		if node.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i], node.Content[i+1]) {
				return
			}
		}
	}
}

func yamlPairs(node *yaml.Node) (*registry.Registry[string, any], error) {
	out := registry.New[string, any]()
	for k, v := range mappingPairs(node) {
		var value any
		if err := v.Decode(&value); err != nil {
			return nil, fmt.Errorf("variable %s: %w", k.Value, err)
		}
		out.Register(k.Value, value)
	}
	return out, nil
}

func newParameterization(name string, vars iter.Seq2[string, any], r *env.Resolver) (*checkers.Parameterization, error) {
	if r == nil {
		return checkers.NewParameterizationFrom(name, vars), nil
	}
	resolved := registry.New[string, any]()
	for k, v := range vars {
		rv, err := r.ResolveValue(v)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", k, err)
		}
		resolved.Register(k, rv)
	}
	return checkers.NewParameterizationFrom(name, resolved.All()), nil
}

// Apply registers the parameterizations of f into run, replacing any with
// the same name. It returns the number registered. Applying the same file
// again leaves the run unchanged.
func (f *File) Apply(run *checkers.TestRun) int {
	n := 0
	for _, set := range f.Sets {
		if !run.Tests.Has(set.Test) {
			logging.Debug(subsystem, "%s: run %s has no test %s", f.Path, run.Name, set.Test)
		}
		for _, p := range set.Parameterizations {
			run.Parameterizations.Register(set.Test, p)
			n++
		}
	}
	return n
}

// LoadAll loads every data file and applies it to each run.
func LoadAll(specs []string, r *env.Resolver, runs ...*checkers.TestRun) error {
	for _, spec := range specs {
		f, err := LoadFile(spec, r)
		if err != nil {
			return err
		}
		for _, run := range runs {
			n := f.Apply(run)
			logging.Debug(subsystem, "applied %d parameterizations from %s to %s", n, spec, run.Name)
		}
	}
	return nil
}
