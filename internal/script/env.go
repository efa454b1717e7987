// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"
	"strings"
)

// Env is an insertion-ordered set of environment variables.
//
// Order matters: Export renders the variables as a shell prelude in which a
// value may reference any variable defined before it (e.g. PATH="$ORCHESTRA_ROOT/bin:$PATH").
// Setting an existing name updates its value but keeps its original position.
type Env struct {
	keys   []string
	values map[string]string
}

// NewEnv creates an empty Env.
func NewEnv() *Env {
	return &Env{values: make(map[string]string)}
}

// Set assigns value to name.
func (e *Env) Set(name, value string) {
	if _, ok := e.values[name]; !ok {
		e.keys = append(e.keys, name)
	}
	e.values[name] = value
}

// Get returns the raw (unexpanded) value of name.
func (e *Env) Get(name string) (string, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Lookup returns the raw value of name, or the empty string.
func (e *Env) Lookup(name string) string {
	return e.values[name]
}

// Keys returns variable names in insertion order.
func (e *Env) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of variables.
func (e *Env) Len() int {
	return len(e.keys)
}

// Clone returns an independent copy.
func (e *Env) Clone() *Env {
	c := &Env{
		keys:   make([]string, len(e.keys)),
		values: make(map[string]string, len(e.values)),
	}
	copy(c.keys, e.keys)
	for k, v := range e.values {
		c.values[k] = v
	}
	return c
}

// Merge overlays other on a copy of e and returns the copy.
func (e *Env) Merge(other *Env) *Env {
	out := e.Clone()
	if other == nil {
		return out
	}
	for _, k := range other.keys {
		out.Set(k, other.values[k])
	}
	return out
}

// Export renders the environment as `export NAME="value"` lines.
// Values are placed inside double quotes unescaped so that they can expand
// previously exported variables.
func (e *Env) Export() string {
	var sb strings.Builder
	for _, k := range e.keys {
		fmt.Fprintf(&sb, "export %s=\"%s\"\n", k, e.values[k])
	}
	return sb.String()
}
