package record

import (
	"encoding/json"
	"slices"

	"github.com/samber/lo"
)

// Patch is a keyed bag of values, the common payload passed between tasks.
type Patch struct {
	data map[string]any
}

// NewPatch creates a patch holding a copy of the given entries.
func NewPatch(entries map[string]any) *Patch {
	p := &Patch{data: make(map[string]any, len(entries))}
	for k, v := range entries {
		p.data[k] = v
	}
	return p
}

// Get returns the value stored under key.
func (p *Patch) Get(key string) (any, bool) {
	v, ok := p.data[key]
	return v, ok
}

// Set stores value under key.
func (p *Patch) Set(key string, value any) {
	if p.data == nil {
		p.data = make(map[string]any)
	}
	p.data[key] = value
}

// Delete removes key.
func (p *Patch) Delete(key string) {
	delete(p.data, key)
}

// Keys returns the sorted keys.
func (p *Patch) Keys() []string {
	keys := lo.Keys(p.data)
	slices.Sort(keys)
	return keys
}

func (p *Patch) Len() int {
	return len(p.data)
}

// ShallowCopy returns a new patch whose entries reference the same values.
func (p *Patch) ShallowCopy() any {
	return NewPatch(p.data)
}

// DeepCopy returns a patch sharing nothing with p.
func (p *Patch) DeepCopy() any {
	out := &Patch{data: make(map[string]any, len(p.data))}
	for k, v := range p.data {
		out.data[k] = Deep(v)
	}
	return out
}

func (p *Patch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.data)
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.data)
}
