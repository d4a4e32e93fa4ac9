package domain

import (
	"fmt"
	"strings"
)

// Query is a named-network inference request in text form, as received from
// the CLI, HTTP or MCP surfaces. Empty fields fall back to engine defaults.
type Query struct {
	Network   string            `json:"network"`
	Query     []string          `json:"query"`
	Evidence  map[string]string `json:"evidence,omitempty"`
	Algorithm string            `json:"algorithm,omitempty"`
	Samples   int               `json:"samples,omitempty"`
}

// NetworkInfo describes a registered network for listings.
type NetworkInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Dynamic     bool           `json:"dynamic"`
	Order       []string       `json:"topological_order"`
	Variables   []VariableInfo `json:"variables"`
}

// VariableInfo describes one network variable.
type VariableInfo struct {
	Name    string   `json:"name"`
	Values  []string `json:"values"`
	Parents []string `json:"parents,omitempty"`
	Role    string   `json:"role,omitempty"`
}

// ParseAssignments reads "Name=value" pairs separated by commas, as written on
// command lines and in query strings. Whitespace around names and values is
// ignored; an empty string yields an empty map.
func ParseAssignments(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("malformed assignment %q: want Name=value", pair)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVariable, name)
		}
		out[name] = value
	}
	return out, nil
}

// ParseNames splits a comma-separated list of variable names.
func ParseNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
