package agent

import "fmt"

// Result is the structured output of an agent execution, keyed by the field
// names declared in the agent definition.
type Result map[string]interface{}

// String returns the value of a string field
func (r Result) String(key string) (string, bool) {
	value, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// StringSlice returns the value of a string list field, accepting the shapes
// produced by JSON decoding
func (r Result) StringSlice(key string) ([]string, bool) {
	value, ok := r[key]
	if !ok {
		return nil, false
	}

	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		strs := make([]string, len(v))
		for i, item := range v {
			strs[i] = fmt.Sprint(item)
		}
		return strs, true
	default:
		return nil, false
	}
}

// Merge copies all fields from other into r, overwriting existing keys
func (r Result) Merge(other Result) {
	for key, value := range other {
		r[key] = value
	}
}

// Clone returns a shallow copy of r
func (r Result) Clone() Result {
	out := make(Result, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}
