package recipe

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Environment is the variable set tasks are expanded against and
// spawned with.
type Environment interface {
	Getenv(key string) string
	Setenv(key, value string) error
	Environ() []string
}

// OSEnvironment is the process environment.
type OSEnvironment struct{}

func (OSEnvironment) Getenv(key string) string { return os.Getenv(key) }

func (OSEnvironment) Setenv(key, value string) error { return os.Setenv(key, value) }

func (OSEnvironment) Environ() []string { return os.Environ() }

// MapEnvironment is an isolated environment that never touches the
// process environment.
type MapEnvironment struct {
	vars map[string]string
}

// NewMapEnvironment returns a MapEnvironment seeded from base, given in
// os.Environ form ("KEY=value").
func NewMapEnvironment(base []string) *MapEnvironment {
	m := &MapEnvironment{vars: make(map[string]string, len(base))}
	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m.vars[k] = v
	}
	return m
}

func (m *MapEnvironment) Getenv(key string) string { return m.vars[key] }

func (m *MapEnvironment) Setenv(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("invalid variable name %q", key)
	}
	m.vars[key] = value
	return nil
}

// Environ returns the variables sorted by name.
func (m *MapEnvironment) Environ() []string {
	out := make([]string, 0, len(m.vars))
	for k, v := range m.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// ApplyEnvironment writes the recipe's env table into env in declaration
// order.
func (r *Recipe) ApplyEnvironment(env Environment) error {
	for _, v := range r.Env {
		if err := env.Setenv(v.Key, v.Value); err != nil {
			return fmt.Errorf("setting %s: %w", v.Key, err)
		}
	}
	return nil
}
