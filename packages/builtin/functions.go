package builtin

import (
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Func computes a value from string arguments.
type Func func(args []string) (any, error)

type Registry struct {
	funcs map[string]Func
	now   func() time.Time
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
		now:   time.Now,
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["uuid"] = funcUUID
	r.funcs["now"] = r.funcNow
	r.funcs["timestamp"] = r.funcTimestamp
	r.funcs["random"] = funcRandom
	r.funcs["randomString"] = funcRandomString
	r.funcs["base64"] = unary(func(s string) any { return base64.StdEncoding.EncodeToString([]byte(s)) })
	r.funcs["upper"] = unary(func(s string) any { return strings.ToUpper(s) })
	r.funcs["lower"] = unary(func(s string) any { return strings.ToLower(s) })
	r.funcs["env"] = funcEnv
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// SetClock replaces the time source used by now and timestamp.
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Call evaluates an expression such as random(1, 10). The boolean is false
// when expr is not a call of a registered function.
func (r *Registry) Call(expr string) (any, bool, error) {
	matches := funcCallPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if matches == nil {
		return nil, false, nil
	}

	fn, ok := r.funcs[matches[1]]
	if !ok {
		return nil, false, nil
	}

	var args []string
	if strings.TrimSpace(matches[2]) != "" {
		args = parseArgs(matches[2])
	}

	v, err := fn(args)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", matches[1], err)
	}
	return v, true, nil
}

// parseArgs splits a comma separated argument list, honouring single and
// double quotes.
func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
		case quote != 0 && ch == quote:
			quote = 0
		case quote == 0 && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	return append(args, strings.TrimSpace(current.String()))
}

func unary(fn func(string) any) Func {
	return func(args []string) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return fn(args[0]), nil
	}
}

func funcUUID(_ []string) (any, error) {
	return uuid.New().String(), nil
}

func (r *Registry) funcNow(args []string) (any, error) {
	layout := time.RFC3339
	if len(args) > 0 && args[0] != "" {
		layout = args[0]
	}
	return r.now().Format(layout), nil
}

func (r *Registry) funcTimestamp(_ []string) (any, error) {
	return r.now().Unix(), nil
}

func funcRandom(args []string) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("expected min and max, got %d arguments", len(args))
	}
	lo, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid min %q", args[0])
	}
	hi, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid max %q", args[1])
	}
	if hi < lo {
		return nil, fmt.Errorf("max %d is below min %d", hi, lo)
	}
	return lo + rand.IntN(hi-lo+1), nil
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func funcRandomString(args []string) (any, error) {
	n := 8
	if len(args) > 0 {
		var err error
		if n, err = strconv.Atoi(args[0]); err != nil || n < 0 {
			return nil, fmt.Errorf("invalid length %q", args[0])
		}
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[rand.IntN(len(alphanumeric))]
	}
	return string(b), nil
}

func funcEnv(args []string) (any, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, fmt.Errorf("expected name and optional fallback, got %d arguments", len(args))
	}
	if v, ok := os.LookupEnv(args[0]); ok {
		return v, nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return "", nil
}
