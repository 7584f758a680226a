package overlay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
)

func categoryEntity(key, body string) *catalog.Entity {
	return &catalog.Entity{
		VersionID:  "22222222-2222-2222-2222-222222222222",
		EntityType: catalog.TypeCategory,
		EntityKey:  key,
		Body:       json.RawMessage(body),
	}
}

func TestOverlayUnchanged(t *testing.T) {
	e := categoryEntity("person", `{"label":"Person"}`)

	eff := Overlay(e, nil)
	require.NotNil(t, eff)
	assert.Equal(t, StatusUnchanged, eff.Status)
	assert.JSONEq(t, `{"label":"Person"}`, string(eff.Body))
}

func TestOverlayBothNil(t *testing.T) {
	assert.Nil(t, Overlay(nil, nil))
}

func TestOverlayCreate(t *testing.T) {
	change := &drafts.DraftChange{
		EntityType: catalog.TypeCategory,
		EntityKey:  "robot",
		Op:         drafts.OpCreate,
		Body:       json.RawMessage(`{"label":"Robot"}`),
	}

	eff := Overlay(nil, change)
	require.NotNil(t, eff)
	assert.Equal(t, StatusAdded, eff.Status)
	assert.Equal(t, "robot", eff.EntityKey)
	assert.JSONEq(t, `{"label":"Robot"}`, string(eff.Body))
}

// The Person/age scenario: canonical Person gains an "age" property through a
// draft patch. The effective body carries it, canonical bytes stay untouched.
func TestOverlayUpdatePersonGainsAge(t *testing.T) {
	canonical := categoryEntity("person",
		`{"label":"Person","properties":[{"key":"name","required":true}]}`)
	before := string(canonical.Body)

	change := &drafts.DraftChange{
		EntityType: catalog.TypeCategory,
		EntityKey:  "person",
		Op:         drafts.OpUpdate,
		Patch:      json.RawMessage(`[{"op":"add","path":"/properties/-","value":{"key":"age"}}]`),
	}

	eff := Overlay(canonical, change)
	require.NotNil(t, eff)
	assert.Equal(t, StatusModified, eff.Status)
	assert.JSONEq(t,
		`{"label":"Person","properties":[{"key":"name","required":true},{"key":"age"}]}`,
		string(eff.Body))

	// canonical bytes must be untouched
	assert.Equal(t, before, string(canonical.Body))
}

func TestOverlayIdempotent(t *testing.T) {
	canonical := categoryEntity("person", `{"label":"Person","tags":[]}`)
	change := &drafts.DraftChange{
		EntityType: catalog.TypeCategory,
		EntityKey:  "person",
		Op:         drafts.OpUpdate,
		Patch:      json.RawMessage(`[{"op":"add","path":"/tags/-","value":"core"}]`),
	}

	first := Overlay(canonical, change)
	second := Overlay(canonical, change)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.JSONEq(t, string(first.Body), string(second.Body))
	assert.JSONEq(t, `{"label":"Person","tags":["core"]}`, string(second.Body))
}

func TestOverlayPatchFailureDegradesToCanonical(t *testing.T) {
	canonical := categoryEntity("person", `{"label":"Person"}`)
	change := &drafts.DraftChange{
		EntityType: catalog.TypeCategory,
		EntityKey:  "person",
		Op:         drafts.OpUpdate,
		Patch:      json.RawMessage(`[{"op":"replace","path":"/gone","value":1}]`),
	}

	eff := Overlay(canonical, change)
	require.NotNil(t, eff)
	assert.Equal(t, StatusUnchanged, eff.Status)
	assert.NotEmpty(t, eff.PatchError)
	assert.JSONEq(t, `{"label":"Person"}`, string(eff.Body))
}

func TestOverlayDeleteKeepsMarker(t *testing.T) {
	canonical := categoryEntity("person", `{"label":"Person"}`)
	change := &drafts.DraftChange{
		EntityType: catalog.TypeCategory,
		EntityKey:  "person",
		Op:         drafts.OpDelete,
	}

	eff := Overlay(canonical, change)
	require.NotNil(t, eff)
	assert.Equal(t, StatusDeleted, eff.Status)
	assert.JSONEq(t, `{"label":"Person"}`, string(eff.Body))
}

func TestOverlayListInlinesCreatesSorted(t *testing.T) {
	canonical := []*catalog.Entity{
		categoryEntity("animal", `{"label":"Animal"}`),
		categoryEntity("person", `{"label":"Person"}`),
	}
	changes := []*drafts.DraftChange{
		{
			EntityType: catalog.TypeCategory,
			EntityKey:  "machine",
			Op:         drafts.OpCreate,
			Body:       json.RawMessage(`{"label":"Machine"}`),
		},
	}

	out := OverlayList(canonical, changes)
	require.Len(t, out, 3)
	assert.Equal(t, "animal", out[0].EntityKey)
	assert.Equal(t, "machine", out[1].EntityKey)
	assert.Equal(t, StatusAdded, out[1].Status)
	assert.Equal(t, "person", out[2].EntityKey)
}

func TestOverlayListAppliesChangesPerKey(t *testing.T) {
	canonical := []*catalog.Entity{
		categoryEntity("a", `{"label":"A"}`),
		categoryEntity("b", `{"label":"B"}`),
		categoryEntity("c", `{"label":"C"}`),
	}
	changes := []*drafts.DraftChange{
		{EntityType: catalog.TypeCategory, EntityKey: "a", Op: drafts.OpDelete},
		{
			EntityType: catalog.TypeCategory, EntityKey: "b", Op: drafts.OpUpdate,
			Patch: json.RawMessage(`[{"op":"replace","path":"/label","value":"B2"}]`),
		},
	}

	out := OverlayList(canonical, changes)
	require.Len(t, out, 3)
	assert.Equal(t, StatusDeleted, out[0].Status)
	assert.Equal(t, StatusModified, out[1].Status)
	assert.JSONEq(t, `{"label":"B2"}`, string(out[1].Body))
	assert.Equal(t, StatusUnchanged, out[2].Status)
}

func TestOverlayListCanonicalUntouched(t *testing.T) {
	canonical := []*catalog.Entity{categoryEntity("a", `{"label":"A"}`)}
	changes := []*drafts.DraftChange{
		{
			EntityType: catalog.TypeCategory, EntityKey: "a", Op: drafts.OpUpdate,
			Patch: json.RawMessage(`[{"op":"replace","path":"/label","value":"Z"}]`),
		},
	}

	OverlayList(canonical, changes)
	assert.JSONEq(t, `{"label":"A"}`, string(canonical[0].Body))
}
