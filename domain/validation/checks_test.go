package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

func snapWithCategories(t *testing.T, cats map[string]*catalog.CategoryBody) *Snapshot {
	t.Helper()
	snap := NewSnapshot()
	for key, body := range cats {
		snap.Categories[key] = body
		snap.Status[catalog.TypeCategory][key] = overlay.StatusUnchanged
	}
	return snap
}

func TestCheckReferencesUnresolvedParent(t *testing.T) {
	snap := snapWithCategories(t, map[string]*catalog.CategoryBody{
		"person": {Label: "Person", Parents: []string{"agent"}},
	})

	messages := CheckReferences(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, "person", messages[0].EntityKey)
	assert.Equal(t, "parents/0", messages[0].FieldPath)
	assert.Equal(t, SeverityError, messages[0].Severity)
	assert.Equal(t, CodeUnresolvedReference, messages[0].Code)
}

func TestCheckReferencesDeletedCountsAsMissing(t *testing.T) {
	snap := snapWithCategories(t, map[string]*catalog.CategoryBody{
		"person": {Label: "Person", Properties: []catalog.PropertyRef{{Key: "name"}}},
	})
	// "name" was deleted by the draft: it is not in the live map.
	snap.Deleted[catalog.TypeProperty]["name"] = true

	messages := CheckReferences(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, CodeUnresolvedReference, messages[0].Code)
	assert.Equal(t, "properties/0", messages[0].FieldPath)
}

func TestCheckReferencesModuleAndBundle(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Members: []catalog.MemberRef{
			{Type: "category", Key: "missing"},
			{Type: "nonsense", Key: "x"},
		},
	}
	snap.Bundles["base"] = &catalog.BundleBody{Modules: []string{"core", "ghost"}}

	messages := CheckReferences(snap)
	require.Len(t, messages, 3)
	codes := map[string]int{}
	for _, m := range messages {
		codes[m.Code]++
	}
	assert.Equal(t, 3, codes[CodeUnresolvedReference])
}

func TestCheckReferencesClean(t *testing.T) {
	snap := snapWithCategories(t, map[string]*catalog.CategoryBody{
		"agent":  {Label: "Agent"},
		"person": {Label: "Person", Parents: []string{"agent"}},
	})
	snap.Properties["name"] = &catalog.PropertyBody{Datatype: "string"}
	snap.Categories["person"].Properties = []catalog.PropertyRef{{Key: "name"}}

	assert.Empty(t, CheckReferences(snap))
}

func TestCheckCyclesReportsOrderedPath(t *testing.T) {
	snap := snapWithCategories(t, map[string]*catalog.CategoryBody{
		"a": {Parents: []string{"b"}},
		"b": {Parents: []string{"c"}},
		"c": {Parents: []string{"a"}},
	})

	messages := CheckCycles(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, SeverityError, messages[0].Severity)
	assert.Equal(t, CodeInheritanceCycle, messages[0].Code)
	assert.Equal(t, "inheritance cycle: a, b, c, a", messages[0].Message)
	assert.Equal(t, "a", messages[0].EntityKey)
}

func TestCheckCyclesSelfLoop(t *testing.T) {
	snap := snapWithCategories(t, map[string]*catalog.CategoryBody{
		"a": {Parents: []string{"a"}},
	})

	messages := CheckCycles(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, "inheritance cycle: a, a", messages[0].Message)
}

func TestCheckCyclesAcyclicIsClean(t *testing.T) {
	snap := snapWithCategories(t, map[string]*catalog.CategoryBody{
		"agent":    {},
		"person":   {Parents: []string{"agent"}},
		"employee": {Parents: []string{"person"}},
		// diamond is fine
		"robot": {Parents: []string{"agent", "person"}},
	})

	assert.Empty(t, CheckCycles(snap))
}

func TestCheckCyclesTwoDisjointCycles(t *testing.T) {
	snap := snapWithCategories(t, map[string]*catalog.CategoryBody{
		"a": {Parents: []string{"b"}},
		"b": {Parents: []string{"a"}},
		"x": {Parents: []string{"y"}},
		"y": {Parents: []string{"x"}},
	})

	messages := CheckCycles(snap)
	require.Len(t, messages, 2)
	assert.Equal(t, "inheritance cycle: a, b, a", messages[0].Message)
	assert.Equal(t, "inheritance cycle: x, y, x", messages[1].Message)
}

func TestCheckBreakingDatatypeChange(t *testing.T) {
	snap := NewSnapshot()
	snap.Properties["age"] = &catalog.PropertyBody{Datatype: "string", Cardinality: "one"}
	snap.CanonicalProperties["age"] = &catalog.PropertyBody{Datatype: "integer", Cardinality: "one"}
	snap.Status[catalog.TypeProperty]["age"] = overlay.StatusModified

	messages := CheckBreaking(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, CodeDatatypeChange, messages[0].Code)
	assert.Equal(t, SeverityWarning, messages[0].Severity)

	// breaking findings never block
	assert.False(t, HasErrors(messages))
}

func TestCheckBreakingCardinalityNarrowed(t *testing.T) {
	snap := NewSnapshot()
	snap.Properties["tags"] = &catalog.PropertyBody{Datatype: "string", Cardinality: "one"}
	snap.CanonicalProperties["tags"] = &catalog.PropertyBody{Datatype: "string", Cardinality: "many"}
	snap.Status[catalog.TypeProperty]["tags"] = overlay.StatusModified

	messages := CheckBreaking(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, CodeCardinalityNarrowed, messages[0].Code)
}

func TestCheckBreakingWideningIsNotFlagged(t *testing.T) {
	snap := NewSnapshot()
	snap.Properties["tags"] = &catalog.PropertyBody{Datatype: "string", Cardinality: "many"}
	snap.CanonicalProperties["tags"] = &catalog.PropertyBody{Datatype: "string", Cardinality: "one"}
	snap.Status[catalog.TypeProperty]["tags"] = overlay.StatusModified

	assert.Empty(t, CheckBreaking(snap))
}

func TestCheckBreakingRemovalStillReferenced(t *testing.T) {
	snap := NewSnapshot()
	snap.Categories["person"] = &catalog.CategoryBody{
		Properties: []catalog.PropertyRef{{Key: "name"}},
	}
	snap.Status[catalog.TypeCategory]["person"] = overlay.StatusUnchanged
	snap.Deleted[catalog.TypeProperty]["name"] = true

	messages := CheckBreaking(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, CodeReferencedRemoved, messages[0].Code)
	assert.Equal(t, "name", messages[0].EntityKey)
	assert.Contains(t, messages[0].Message, "person")
}

func TestCheckBreakingMemberRemoved(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Members: []catalog.MemberRef{{Type: "category", Key: "person"}},
	}
	snap.CanonicalModules["core"] = &catalog.ModuleBody{
		Members: []catalog.MemberRef{
			{Type: "category", Key: "person"},
			{Type: "category", Key: "animal"},
		},
	}
	snap.Status[catalog.TypeModule]["core"] = overlay.StatusModified

	messages := CheckBreaking(snap)
	require.Len(t, messages, 1)
	assert.Equal(t, CodeMemberRemoved, messages[0].Code)
	assert.Contains(t, messages[0].Message, "animal")
}
