package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

func TestAssembleTreeOrdersByTypeThenKey(t *testing.T) {
	effective := map[catalog.EntityType]map[string]*overlay.EffectiveEntity{
		catalog.TypeProperty: {
			"name": {EntityType: catalog.TypeProperty, EntityKey: "name", Body: json.RawMessage(`{"datatype":"string"}`), Status: overlay.StatusUnchanged},
		},
		catalog.TypeCategory: {
			"person": {EntityType: catalog.TypeCategory, EntityKey: "person", Body: json.RawMessage(`{"label":"Person"}`), Status: overlay.StatusModified},
			"animal": {EntityType: catalog.TypeCategory, EntityKey: "animal", Body: json.RawMessage(`{"label":"Animal"}`), Status: overlay.StatusUnchanged},
		},
	}

	entities := AssembleTree(effective)
	require.Len(t, entities, 3)

	// categories first, keys sorted within the type
	assert.Equal(t, "animal", entities[0].EntityKey)
	assert.Equal(t, "person", entities[1].EntityKey)
	assert.Equal(t, catalog.TypeProperty, entities[2].EntityType)
	assert.Equal(t, overlay.StatusModified, entities[1].Status)
}

func TestAssembleTreeFlagsDeletions(t *testing.T) {
	effective := map[catalog.EntityType]map[string]*overlay.EffectiveEntity{
		catalog.TypeCategory: {
			"person": {
				EntityType: catalog.TypeCategory,
				EntityKey:  "person",
				Body:       json.RawMessage(`{"label":"Person"}`),
				Status:     overlay.StatusDeleted,
			},
		},
	}

	entities := AssembleTree(effective)
	require.Len(t, entities, 1)
	assert.True(t, entities[0].Deleted)
	// the writer removes the file, it does not need the body
	assert.Nil(t, entities[0].Body)
}

func TestAssembleTreeCarriesPatchErrors(t *testing.T) {
	effective := map[catalog.EntityType]map[string]*overlay.EffectiveEntity{
		catalog.TypeCategory: {
			"person": {
				EntityType: catalog.TypeCategory,
				EntityKey:  "person",
				Body:       json.RawMessage(`{"label":"Person"}`),
				Status:     overlay.StatusUnchanged,
				PatchError: "apply patch: missing path",
			},
		},
	}

	entities := AssembleTree(effective)
	require.Len(t, entities, 1)
	assert.Equal(t, "apply patch: missing path", entities[0].PatchError)
}

func TestAssembleTreeEmptySnapshot(t *testing.T) {
	assert.Empty(t, AssembleTree(map[catalog.EntityType]map[string]*overlay.EffectiveEntity{}))
}
