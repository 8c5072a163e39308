// Package form holds the operator's form as a plain value: a mapping from
// field name to string, plus the single flash message shown above it.
package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical boolean renderings.
const (
	True  = "true"
	False = "false"
)

// State is the form's field values. A missing field reads as "".
type State map[string]string

// New returns an empty State.
func New() State {
	return State{}
}

// Read returns the value of name, or "" when the field is absent. Safe on a
// nil State.
func (s State) Read(name string) string {
	if s == nil {
		return ""
	}
	return s[name]
}

// ReadBool interprets name as a checkbox and returns True or False.
func (s State) ReadBool(name string) string {
	return Canonical(s.Read(name))
}

// Write stores value under name. Booleans and canonical strings are rendered
// as True/False; other values are formatted with fmt.
func (s State) Write(name string, value any) {
	if s == nil {
		return
	}
	if BoolFields[name] {
		s[name] = Canonical(value)
		return
	}
	switch v := value.(type) {
	case nil:
		s[name] = ""
	case string:
		s[name] = v
	case bool:
		s[name] = strconv.FormatBool(v)
	case fmt.Stringer:
		s[name] = v.String()
	default:
		s[name] = fmt.Sprint(v)
	}
}

// Clear blanks each of the named fields.
func (s State) Clear(names ...string) {
	if s == nil {
		return
	}
	for _, name := range names {
		s[name] = ""
	}
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a copy of s with every field of other written over it.
func (s State) Merge(other State) State {
	out := s.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Canonical maps a checkbox-like value to exactly True or False.
func Canonical(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return True
		}
		return False
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes", "checked":
			return True
		}
		return False
	default:
		return False
	}
}
