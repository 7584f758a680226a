package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graph fixture helpers: adjacency maps drive the walker callbacks.
func parentsFrom(m map[string][]string) ParentsFunc {
	return func(key string) []string { return m[key] }
}

func propsFrom(m map[string][]PropertyRef) DirectPropsFunc {
	return func(key string) []PropertyRef { return m[key] }
}

func TestComputeEffectivePropertiesInheritance(t *testing.T) {
	parents := parentsFrom(map[string][]string{
		"employee": {"person"},
		"person":   {"agent"},
	})
	props := propsFrom(map[string][]PropertyRef{
		"employee": {{Key: "salary", Required: true}},
		"person":   {{Key: "name", Required: true}, {Key: "age"}},
		"agent":    {{Key: "id", Required: true}},
	})

	entries := ComputeEffectiveProperties("employee", parents, props, 0)
	require.Len(t, entries, 4)

	byKey := map[string]EffectivePropertyEntry{}
	for _, e := range entries {
		byKey[e.PropertyKey] = e
	}

	assert.Equal(t, EffectivePropertyEntry{PropertyKey: "salary", SourceCategoryKey: "employee", Required: true, Depth: 0}, byKey["salary"])
	assert.Equal(t, EffectivePropertyEntry{PropertyKey: "name", SourceCategoryKey: "person", Required: true, Depth: 1}, byKey["name"])
	assert.Equal(t, EffectivePropertyEntry{PropertyKey: "age", SourceCategoryKey: "person", Depth: 1}, byKey["age"])
	assert.Equal(t, EffectivePropertyEntry{PropertyKey: "id", SourceCategoryKey: "agent", Required: true, Depth: 2}, byKey["id"])
}

func TestComputeEffectivePropertiesNearestWins(t *testing.T) {
	// "name" is defined both on the category itself and on a grandparent;
	// the local definition must win.
	parents := parentsFrom(map[string][]string{
		"employee": {"person"},
		"person":   {"agent"},
	})
	props := propsFrom(map[string][]PropertyRef{
		"employee": {{Key: "name", Required: false}},
		"agent":    {{Key: "name", Required: true}},
	})

	entries := ComputeEffectiveProperties("employee", parents, props, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, "employee", entries[0].SourceCategoryKey)
	assert.Equal(t, 0, entries[0].Depth)
	assert.False(t, entries[0].Required)
}

func TestComputeEffectivePropertiesDiamondTieBreak(t *testing.T) {
	// Diamond: child -> (left, right) -> top. Both left and right define
	// "shared" at depth 1; the lexicographically smaller source wins.
	parents := parentsFrom(map[string][]string{
		"child": {"right", "left"},
		"left":  {"top"},
		"right": {"top"},
	})
	props := propsFrom(map[string][]PropertyRef{
		"left":  {{Key: "shared"}},
		"right": {{Key: "shared"}},
	})

	entries := ComputeEffectiveProperties("child", parents, props, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, "left", entries[0].SourceCategoryKey)
	assert.Equal(t, 1, entries[0].Depth)
}

func TestComputeEffectivePropertiesCycleTerminates(t *testing.T) {
	// a -> b -> c -> a: the walk must terminate and still collect the union.
	parents := parentsFrom(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})
	props := propsFrom(map[string][]PropertyRef{
		"a": {{Key: "pa"}},
		"b": {{Key: "pb"}},
		"c": {{Key: "pc"}},
	})

	entries := ComputeEffectiveProperties("a", parents, props, 0)
	require.Len(t, entries, 3)
	assert.Equal(t, "pa", entries[0].PropertyKey)
	assert.Equal(t, "pb", entries[1].PropertyKey)
	assert.Equal(t, "pc", entries[2].PropertyKey)
}

func TestComputeEffectivePropertiesDepthBound(t *testing.T) {
	parents := parentsFrom(map[string][]string{
		"a": {"b"},
		"b": {"c"},
	})
	props := propsFrom(map[string][]PropertyRef{
		"b": {{Key: "pb"}},
		"c": {{Key: "pc"}},
	})

	entries := ComputeEffectiveProperties("a", parents, props, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, "pb", entries[0].PropertyKey)
}

func TestCollectAncestors(t *testing.T) {
	parents := parentsFrom(map[string][]string{
		"employee": {"person"},
		"person":   {"agent", "thing"},
		"agent":    {"thing"},
	})

	got := CollectAncestors("employee", parents, 0)
	assert.Equal(t, []string{"agent", "person", "thing"}, got)
}

func TestCollectAncestorsCycle(t *testing.T) {
	parents := parentsFrom(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})

	got := CollectAncestors("a", parents, 0)
	assert.Equal(t, []string{"b"}, got)
}
