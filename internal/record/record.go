// Package record defines how values flowing between tasks are copied.
//
// A task output that feeds more than one consumer is shallow-copied once per
// consumer, so a consumer that replaces fields on its copy does not affect its
// siblings. Argument bags handed to the parallel executor are deep-copied per
// run so runs never share mutable state.
package record

import (
	"maps"
)

// Copier is implemented by values that can produce a shallow copy of
// themselves: a new container whose fields still reference the originals.
type Copier interface {
	ShallowCopy() any
}

// DeepCopier is implemented by values that can produce a fully independent copy.
type DeepCopier interface {
	DeepCopy() any
}

// Shallow returns v.ShallowCopy() when v supports it and v itself otherwise.
func Shallow(v any) any {
	if c, ok := v.(Copier); ok {
		return c.ShallowCopy()
	}
	return v
}

// Deep returns an independent copy of v. DeepCopier values copy themselves;
// generic maps and slices are copied recursively; anything else is returned
// as is.
func Deep(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case DeepCopier:
		return t.DeepCopy()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Deep(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Deep(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
