package task

import (
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/vk/gridflow/internal/record"
)

// Args is the keyword argument bag handed to a task for one run.
type Args map[string]any

// Clone returns a deep copy of the bag.
func (a Args) Clone() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = record.Deep(v)
	}
	return out
}

// Merge returns a new bag holding a overlaid with other.
func (a Args) Merge(other Args) Args {
	out := make(Args, len(a)+len(other))
	maps.Copy(out, a)
	maps.Copy(out, other)
	return out
}

// String returns the value under key as a string, or def when absent.
func (a Args) String(key, def string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: expected string, got %T", key, v)
	}
	return s, nil
}

// Int returns the value under key as an int, or def when absent. Whole
// floats are accepted because configuration decoders produce them.
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("argument %q: %v is not a whole number", key, n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("argument %q: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("argument %q: expected number, got %T", key, v)
	}
}

// Bool returns the value under key as a bool, or def when absent.
func (a Args) Bool(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("argument %q: %w", key, err)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("argument %q: expected bool, got %T", key, v)
	}
}

// Duration returns the value under key as a duration. Strings are parsed
// with time.ParseDuration, numbers are read as seconds.
func (a Args) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("argument %q: %w", key, err)
		}
		return parsed, nil
	case int:
		return time.Duration(d) * time.Second, nil
	case float64:
		return time.Duration(d * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("argument %q: expected duration, got %T", key, v)
	}
}
