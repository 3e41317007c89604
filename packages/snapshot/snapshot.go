// Package snapshot compares values produced by test cases against golden
// values stored next to the test data.
//
// Snapshots of one test run live in a single JSON file,
// <dir>/__snapshots__/<run>.snap.json, keyed by test case full name (or
// "<full name>::<label>" when a case stores more than one value).
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
)

const (
	// Dir is the directory name snapshots are stored under.
	Dir = "__snapshots__"
	// Ext is the extension of snapshot files.
	Ext = ".snap.json"
)

// Store loads, compares and updates snapshot files.
type Store struct {
	baseDir string
	update  bool
	files   map[string]map[string]any
}

// NewStore creates a store rooted at baseDir. In update mode missing or
// mismatching snapshots are written instead of failing.
func NewStore(baseDir string, update bool) *Store {
	return &Store{
		baseDir: baseDir,
		update:  update,
		files:   make(map[string]map[string]any),
	}
}

// Result describes one comparison.
type Result struct {
	Key      string
	Expected any
	Actual   any
	Created  bool
	Updated  bool
}

// Compare checks actual against the snapshot stored for run and key.
// A mismatch or a missing snapshot outside update mode is reported as a
// *checkers.AssertionError.
func (s *Store) Compare(run, key string, actual any) (*Result, error) {
	res := &Result{Key: key, Actual: actual}
	path := s.Path(run)

	snaps, err := s.load(path)
	if err != nil {
		return res, fmt.Errorf("loading snapshots: %w", err)
	}

	expected, ok := snaps[key]
	switch {
	case !ok && !s.update:
		return res, checkers.NewAssertionError("snapshot %q does not exist (run with --update-snapshots to create it)", key)
	case !ok:
		res.Created = true
	default:
		res.Expected = expected
		if equal(expected, actual) {
			return res, nil
		}
		if !s.update {
			return res, checkers.NewAssertionError("snapshot %q mismatch; <%s> != <%s>", key, encode(expected), encode(actual))
		}
		res.Updated = true
	}

	snaps[key] = actual
	res.Expected = actual
	if err := s.save(path, snaps); err != nil {
		return res, fmt.Errorf("saving snapshot %q: %w", key, err)
	}
	return res, nil
}

// Path returns the snapshot file of a run.
func (s *Store) Path(run string) string {
	return filepath.Join(s.baseDir, Dir, run+Ext)
}

func (s *Store) load(path string) (map[string]any, error) {
	if cached, ok := s.files[path]; ok {
		return cached, nil
	}

	snaps := make(map[string]any)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.files[path] = snaps
		return snaps, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.files[path] = snaps
	return snaps, nil
}

func (s *Store) save(path string, snaps map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// equal compares values after a JSON round trip so that numbers read back
// from a file match the Go values a test produced.
func equal(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

var defaultStore = NewStore(".", false)

// SetDefault replaces the store used by Match.
func SetDefault(s *Store) {
	defaultStore = s
}

// Default returns the store used by Match.
func Default() *Store {
	return defaultStore
}

// Match compares actual against the snapshot of the test case ctx belongs
// to. labels distinguish several snapshots taken by the same case.
func Match(ctx *checkers.Context, actual any, labels ...string) error {
	return MatchIn(defaultStore, ctx, actual, labels...)
}

// MatchIn is Match against an explicit store.
func MatchIn(s *Store, ctx *checkers.Context, actual any, labels ...string) error {
	if ctx == nil || ctx.TestCase() == nil {
		return errors.New("snapshot: context is not bound to a test case")
	}
	run := "default"
	if r := ctx.TestRun(); r != nil && r.Name != "" {
		run = r.Name
	}
	key := ctx.TestCase().FullName()
	for _, l := range labels {
		key += "::" + l
	}
	_, err := s.Compare(run, key, actual)
	return err
}
