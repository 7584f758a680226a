package rebase

import (
	"encoding/json"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
)

// ConflictReason classifies why a draft change no longer fits the new
// canonical version.
type ConflictReason string

const (
	// ReasonKeyExists: a create targets a key the new version now defines.
	ReasonKeyExists ConflictReason = "key_exists"
	// ReasonTargetRemoved: an update or delete targets a key the new version
	// no longer defines.
	ReasonTargetRemoved ConflictReason = "target_removed"
	// ReasonPatchFailed: an update's stored patch does not apply to the new
	// canonical body.
	ReasonPatchFailed ConflictReason = "patch_failed"
)

// Conflict describes one draft change whose precondition the new canonical
// version breaks. The stored change itself is left untouched so the author
// can resolve it by hand.
type Conflict struct {
	EntityType catalog.EntityType `json:"entity_type"`
	EntityKey  string             `json:"entity_key"`
	Op         drafts.ChangeOp    `json:"op"`
	Reason     ConflictReason     `json:"reason"`
	Detail     string             `json:"detail,omitempty"`
}

// EvaluateChange tests one draft change against the canonical body the new
// version holds for its key (nil when the key is absent there). It returns
// nil when the change carries over cleanly.
//
// Updates are probed by re-applying the stored patch against the new body;
// the probe result is discarded and the stored patch is never rewritten.
func EvaluateChange(change *drafts.DraftChange, canonicalBody json.RawMessage) *Conflict {
	conflict := func(reason ConflictReason, detail string) *Conflict {
		return &Conflict{
			EntityType: change.EntityType,
			EntityKey:  change.EntityKey,
			Op:         change.Op,
			Reason:     reason,
			Detail:     detail,
		}
	}

	switch change.Op {
	case drafts.OpCreate:
		if canonicalBody != nil {
			return conflict(ReasonKeyExists, "entity now exists canonically")
		}
	case drafts.OpUpdate:
		if canonicalBody == nil {
			return conflict(ReasonTargetRemoved, "entity no longer exists canonically")
		}
		if _, err := drafts.ApplyPatch(canonicalBody, change.Patch); err != nil {
			return conflict(ReasonPatchFailed, err.Error())
		}
	case drafts.OpDelete:
		if canonicalBody == nil {
			return conflict(ReasonTargetRemoved, "entity no longer exists canonically")
		}
	}
	return nil
}

// EvaluateChanges runs EvaluateChange over a full change log. bodies maps
// entity type and key to the new version's canonical body for the keys the
// log touches; absent keys mean the new version does not define them.
func EvaluateChanges(changes []*drafts.DraftChange, bodies map[catalog.EntityType]map[string]json.RawMessage) []Conflict {
	var out []Conflict
	for _, change := range changes {
		var body json.RawMessage
		if byKey, ok := bodies[change.EntityType]; ok {
			body = byKey[change.EntityKey]
		}
		if c := EvaluateChange(change, body); c != nil {
			out = append(out, *c)
		}
	}
	return out
}
