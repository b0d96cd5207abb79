package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
)

// nameRegex matches `base` or `base[1]`.
var nameRegex = regexp.MustCompile(`^([a-zA-Z0-9_.:-]+)(?:\[(\d+)\])?$`)

// isValidBase checks for undesirable but technically valid names.
func isValidBase(base string) bool {
	if base == "." || base == ".." || base == "-" {
		return false
	}
	return true
}

// String renders the name in its canonical form.
func (n Name) String() string {
	if n.Index < 0 {
		return n.Base
	}
	return fmt.Sprintf("%s[%d]", n.Base, n.Index)
}

// Parse reads a name from its canonical string form.
func Parse(raw string) (Name, error) {
	if raw == "" {
		return Name{}, fmt.Errorf("name cannot be empty")
	}

	matches := nameRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Name{}, fmt.Errorf("invalid name format: %q", raw)
	}

	base := matches[1]
	if !isValidBase(base) {
		return Name{}, fmt.Errorf("invalid name: %q", base)
	}

	name := NewName(base)
	if matches[2] != "" {
		index, err := strconv.Atoi(matches[2])
		if err != nil {
			// Unreachable due to regex `\d+`
			return Name{}, fmt.Errorf("internal error parsing index: %w", err)
		}
		name.Index = index
	}
	return name, nil
}

// Disambiguate assigns a unique name to every requested label, preserving
// input order. The first holder of a label keeps it verbatim; later holders
// get the lowest free index starting at 1.
func Disambiguate(requested []string) []string {
	taken := make(map[string]struct{}, len(requested))
	for _, r := range requested {
		taken[r] = struct{}{}
	}

	assigned := make(map[string]struct{}, len(requested))
	out := make([]string, len(requested))
	for i, r := range requested {
		if _, dup := assigned[r]; !dup {
			assigned[r] = struct{}{}
			out[i] = r
			continue
		}
		for idx := 1; ; idx++ {
			candidate := NewNameWithIndex(r, idx).String()
			_, used := assigned[candidate]
			_, reserved := taken[candidate]
			if !used && !reserved {
				assigned[candidate] = struct{}{}
				out[i] = candidate
				break
			}
		}
	}
	return out
}
