package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShallow_PatchIsolatesTopLevel(t *testing.T) {
	orig := NewPatch(map[string]any{"bands": []any{1, 2}, "name": "tile"})

	cp := Shallow(orig).(*Patch)
	cp.Set("name", "changed")
	cp.Set("extra", true)

	name, _ := orig.Get("name")
	assert.Equal(t, "tile", name)
	_, ok := orig.Get("extra")
	assert.False(t, ok)

	// nested values are shared
	origBands, _ := orig.Get("bands")
	cpBands, _ := cp.Get("bands")
	origBands.([]any)[0] = 99
	assert.Equal(t, 99, cpBands.([]any)[0])
}

func TestShallow_PlainValuesPassThrough(t *testing.T) {
	assert.Equal(t, 42, Shallow(42))
	m := map[string]any{"a": 1}
	assert.Equal(t, m, Shallow(m))
}

func TestDeep_CopiesNestedContainers(t *testing.T) {
	orig := map[string]any{
		"list":  []any{map[string]any{"x": 1}},
		"patch": NewPatch(map[string]any{"k": []any{"v"}}),
		"tags":  []string{"a"},
	}

	cp := Deep(orig).(map[string]any)
	cp["list"].([]any)[0].(map[string]any)["x"] = 2
	cp["tags"].([]string)[0] = "b"
	inner, _ := cp["patch"].(*Patch).Get("k")
	inner.([]any)[0] = "changed"

	assert.Equal(t, 1, orig["list"].([]any)[0].(map[string]any)["x"])
	assert.Equal(t, "a", orig["tags"].([]string)[0])
	origInner, _ := orig["patch"].(*Patch).Get("k")
	assert.Equal(t, "v", origInner.([]any)[0])
}

func TestPatch_KeysSortedAndJSON(t *testing.T) {
	p := NewPatch(map[string]any{"b": 2, "a": "x"})
	assert.Equal(t, []string{"a", "b"}, p.Keys())
	assert.Equal(t, 2, p.Len())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":2}`, string(data))

	var back Patch
	require.NoError(t, json.Unmarshal(data, &back))
	v, ok := back.Get("a")
	require.True(t, ok)
	assert.Equal(t, "x", v)
}
