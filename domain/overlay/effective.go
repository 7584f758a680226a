// Package overlay computes the effective view of the ontology under a draft:
// canonical entities with the draft's change log applied on top. Canonical
// data is never mutated; every result is recomputed from scratch.
package overlay

import (
	"encoding/json"
	"sort"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
)

// ChangeStatus says how an effective entity relates to canonical.
type ChangeStatus string

const (
	StatusAdded     ChangeStatus = "added"
	StatusModified  ChangeStatus = "modified"
	StatusDeleted   ChangeStatus = "deleted"
	StatusUnchanged ChangeStatus = "unchanged"
)

// EffectiveEntity is one entity as seen through a draft.
type EffectiveEntity struct {
	EntityType catalog.EntityType `json:"entity_type"`
	EntityKey  string             `json:"entity_key"`
	Body       json.RawMessage    `json:"body"`
	Status     ChangeStatus       `json:"change_status"`
	// PatchError is set when a stored update patch no longer applies; the
	// canonical body is served unchanged in that case.
	PatchError string `json:"patch_error,omitempty"`
}

// Overlay folds one draft change over one canonical entity. Either input may
// be nil: a create has no canonical row, an untouched entity has no change.
// Both nil yields nil. A failing patch is recoverable: the canonical body
// comes back unchanged with the failure recorded, never an error.
func Overlay(canonical *catalog.Entity, change *drafts.DraftChange) *EffectiveEntity {
	if change == nil {
		if canonical == nil {
			return nil
		}
		return &EffectiveEntity{
			EntityType: canonical.EntityType,
			EntityKey:  canonical.EntityKey,
			Body:       canonical.Body,
			Status:     StatusUnchanged,
		}
	}

	switch change.Op {
	case drafts.OpCreate:
		return &EffectiveEntity{
			EntityType: change.EntityType,
			EntityKey:  change.EntityKey,
			Body:       change.Body,
			Status:     StatusAdded,
		}

	case drafts.OpUpdate:
		if canonical == nil {
			// Update against a vanished canonical row: nothing to show.
			return nil
		}
		patched, err := drafts.ApplyPatch(canonical.Body, change.Patch)
		if err != nil {
			return &EffectiveEntity{
				EntityType: canonical.EntityType,
				EntityKey:  canonical.EntityKey,
				Body:       canonical.Body,
				Status:     StatusUnchanged,
				PatchError: err.Error(),
			}
		}
		return &EffectiveEntity{
			EntityType: canonical.EntityType,
			EntityKey:  canonical.EntityKey,
			Body:       patched,
			Status:     StatusModified,
		}

	case drafts.OpDelete:
		if canonical == nil {
			return nil
		}
		return &EffectiveEntity{
			EntityType: canonical.EntityType,
			EntityKey:  canonical.EntityKey,
			Body:       canonical.Body,
			Status:     StatusDeleted,
		}
	}

	return nil
}

// OverlayList folds a draft's changes of one type over the canonical listing.
// Created entities are inlined and the whole set re-sorted by key, so callers
// see one ordered sequence with no seam between canonical and draft rows.
// Deleted entities stay in the list carrying their marker.
func OverlayList(canonical []*catalog.Entity, changes []*drafts.DraftChange) []*EffectiveEntity {
	byKey := make(map[string]*drafts.DraftChange, len(changes))
	for _, c := range changes {
		byKey[c.EntityKey] = c
	}

	out := make([]*EffectiveEntity, 0, len(canonical)+len(changes))
	seen := make(map[string]bool, len(canonical))

	for _, e := range canonical {
		seen[e.EntityKey] = true
		if eff := Overlay(e, byKey[e.EntityKey]); eff != nil {
			out = append(out, eff)
		}
	}
	for _, c := range changes {
		if seen[c.EntityKey] || c.Op != drafts.OpCreate {
			continue
		}
		if eff := Overlay(nil, c); eff != nil {
			out = append(out, eff)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EntityKey < out[j].EntityKey
	})
	return out
}
