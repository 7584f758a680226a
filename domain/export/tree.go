package export

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
	"github.com/ontocraft/ontocraft/domain/validation"
)

// TreeEntity is one entity's effective body in a materialized tree. Deleted
// entities stay in the tree with the flag set so consumers can remove the
// corresponding files.
type TreeEntity struct {
	EntityType catalog.EntityType   `json:"entity_type"`
	EntityKey  string               `json:"entity_key"`
	Body       json.RawMessage      `json:"body,omitempty"`
	Status     overlay.ChangeStatus `json:"status"`
	Deleted    bool                 `json:"deleted"`
	PatchError string               `json:"patch_error,omitempty"`
}

// Tree is the full effective ontology under a draft, serialized for the
// repository writer: every entity's body in deterministic order, plus the
// version-bump suggestions the draft's changes earn.
type Tree struct {
	DraftID       string                        `json:"draft_id"`
	BaseVersionID string                        `json:"base_version_id"`
	GeneratedAt   time.Time                     `json:"generated_at"`
	Entities      []TreeEntity                  `json:"entities"`
	Suggestions   []validation.SemverSuggestion `json:"semver_suggestions"`
}

// AssembleTree flattens an effective snapshot into entities ordered by type
// then key.
func AssembleTree(effective map[catalog.EntityType]map[string]*overlay.EffectiveEntity) []TreeEntity {
	out := []TreeEntity{}
	for _, entityType := range catalog.AllEntityTypes {
		byKey := effective[entityType]
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			eff := byKey[key]
			node := TreeEntity{
				EntityType: entityType,
				EntityKey:  key,
				Status:     eff.Status,
				Deleted:    eff.Status == overlay.StatusDeleted,
				PatchError: eff.PatchError,
			}
			if !node.Deleted {
				node.Body = eff.Body
			}
			out = append(out, node)
		}
	}
	return out
}
