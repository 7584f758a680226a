package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

func TestBump(t *testing.T) {
	assert.Equal(t, "2.0.0", bump("1.4.2", BumpMajor))
	assert.Equal(t, "1.5.0", bump("1.4.2", BumpMinor))
	assert.Equal(t, "1.4.3", bump("1.4.2", BumpPatch))

	// absent or junk versions start over from 0.0.0
	assert.Equal(t, "1.0.0", bump("", BumpMajor))
	assert.Equal(t, "0.1.0", bump("not-a-version", BumpMinor))
	assert.Equal(t, "0.0.1", bump("", BumpPatch))
}

func TestSuggestSemverUntouchedModuleIsSilent(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Version: "1.0.0",
		Members: []catalog.MemberRef{{Type: "category", Key: "person"}},
	}
	snap.Categories["person"] = &catalog.CategoryBody{}
	snap.Status[catalog.TypeModule]["core"] = overlay.StatusUnchanged
	snap.Status[catalog.TypeCategory]["person"] = overlay.StatusUnchanged

	assert.Empty(t, SuggestSemver(snap, nil))
}

func TestSuggestSemverMinorForAddedMember(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Version: "1.2.0",
		Members: []catalog.MemberRef{
			{Type: "category", Key: "person"},
			{Type: "category", Key: "robot"},
		},
	}
	snap.Categories["person"] = &catalog.CategoryBody{}
	snap.Categories["robot"] = &catalog.CategoryBody{}
	snap.Status[catalog.TypeModule]["core"] = overlay.StatusModified
	snap.Status[catalog.TypeCategory]["robot"] = overlay.StatusAdded

	suggestions := SuggestSemver(snap, nil)
	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, catalog.TypeModule, s.EntityType)
	assert.Equal(t, "core", s.EntityKey)
	assert.Equal(t, BumpMinor, s.Level)
	assert.Equal(t, "1.3.0", s.Suggested)
	// the module edit itself rides along as a patch-level reason
	assert.Len(t, s.Reasons, 2)
}

func TestSuggestSemverMajorForBreakingMember(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Version: "1.2.0",
		Members: []catalog.MemberRef{{Type: "property", Key: "age"}},
	}
	snap.Properties["age"] = &catalog.PropertyBody{Datatype: "string"}
	snap.Status[catalog.TypeProperty]["age"] = overlay.StatusModified

	breaking := []Message{{
		EntityKey: "age",
		Severity:  SeverityWarning,
		Code:      CodeDatatypeChange,
		Message:   `datatype changed from "integer" to "string"`,
	}}

	suggestions := SuggestSemver(snap, breaking)
	require.Len(t, suggestions, 1)
	assert.Equal(t, BumpMajor, suggestions[0].Level)
	assert.Equal(t, "2.0.0", suggestions[0].Suggested)
	assert.Contains(t, suggestions[0].Reasons[0], "datatype changed")
}

func TestSuggestSemverMajorForDeletedMember(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Version: "0.3.1",
		Members: []catalog.MemberRef{{Type: "category", Key: "person"}},
	}
	snap.Deleted[catalog.TypeCategory]["person"] = true

	suggestions := SuggestSemver(snap, nil)
	require.Len(t, suggestions, 1)
	assert.Equal(t, BumpMajor, suggestions[0].Level)
	assert.Equal(t, "1.0.0", suggestions[0].Suggested)
}

func TestSuggestSemverPatchForModifiedMember(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Version: "1.2.0",
		Members: []catalog.MemberRef{{Type: "category", Key: "person"}},
	}
	snap.Categories["person"] = &catalog.CategoryBody{Label: "Person!"}
	snap.Status[catalog.TypeCategory]["person"] = overlay.StatusModified

	suggestions := SuggestSemver(snap, nil)
	require.Len(t, suggestions, 1)
	assert.Equal(t, BumpPatch, suggestions[0].Level)
	assert.Equal(t, "1.2.1", suggestions[0].Suggested)
}

func TestSuggestSemverBundleAggregatesModuleMembers(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{
		Version: "1.0.0",
		Members: []catalog.MemberRef{{Type: "category", Key: "robot"}},
	}
	snap.Bundles["base"] = &catalog.BundleBody{
		Version: "2.1.0",
		Modules: []string{"core"},
	}
	snap.Categories["robot"] = &catalog.CategoryBody{}
	snap.Status[catalog.TypeCategory]["robot"] = overlay.StatusAdded

	suggestions := SuggestSemver(snap, nil)
	require.Len(t, suggestions, 2)

	// modules sort before bundles in the output
	assert.Equal(t, catalog.TypeModule, suggestions[0].EntityType)
	assert.Equal(t, "1.1.0", suggestions[0].Suggested)

	assert.Equal(t, catalog.TypeBundle, suggestions[1].EntityType)
	assert.Equal(t, "base", suggestions[1].EntityKey)
	assert.Equal(t, BumpMinor, suggestions[1].Level)
	assert.Equal(t, "2.2.0", suggestions[1].Suggested)
}

func TestSuggestSemverBundleUntouchedWhenModulesQuiet(t *testing.T) {
	snap := NewSnapshot()
	snap.Modules["core"] = &catalog.ModuleBody{Version: "1.0.0"}
	snap.Bundles["base"] = &catalog.BundleBody{Version: "2.0.0", Modules: []string{"core"}}

	assert.Empty(t, SuggestSemver(snap, nil))
}
