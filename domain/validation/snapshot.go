package validation

import (
	"fmt"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

// Snapshot is the decoded effective ontology under a draft, plus the
// canonical bodies needed to classify what changed. The live maps exclude
// deleted entities; deletions and overlay statuses are tracked alongside.
type Snapshot struct {
	Categories map[string]*catalog.CategoryBody
	Properties map[string]*catalog.PropertyBody
	Subobjects map[string]*catalog.SubobjectBody
	Modules    map[string]*catalog.ModuleBody
	Bundles    map[string]*catalog.BundleBody
	Templates  map[string]*catalog.TemplateBody

	Status  map[catalog.EntityType]map[string]overlay.ChangeStatus
	Deleted map[catalog.EntityType]map[string]bool

	CanonicalProperties map[string]*catalog.PropertyBody
	CanonicalModules    map[string]*catalog.ModuleBody
	CanonicalBundles    map[string]*catalog.BundleBody

	// Decode and patch problems discovered while building the snapshot.
	Problems []Message
}

// NewSnapshot allocates an empty snapshot.
func NewSnapshot() *Snapshot {
	s := &Snapshot{
		Categories:          map[string]*catalog.CategoryBody{},
		Properties:          map[string]*catalog.PropertyBody{},
		Subobjects:          map[string]*catalog.SubobjectBody{},
		Modules:             map[string]*catalog.ModuleBody{},
		Bundles:             map[string]*catalog.BundleBody{},
		Templates:           map[string]*catalog.TemplateBody{},
		Status:              map[catalog.EntityType]map[string]overlay.ChangeStatus{},
		Deleted:             map[catalog.EntityType]map[string]bool{},
		CanonicalProperties: map[string]*catalog.PropertyBody{},
		CanonicalModules:    map[string]*catalog.ModuleBody{},
		CanonicalBundles:    map[string]*catalog.BundleBody{},
	}
	for _, t := range catalog.AllEntityTypes {
		s.Status[t] = map[string]overlay.ChangeStatus{}
		s.Deleted[t] = map[string]bool{}
	}
	return s
}

// BuildSnapshot decodes the effective view and the canonical comparison
// bodies. A body that fails to decode drops out of the live maps and leaves
// an error message; a stored patch that no longer applied leaves a warning.
func BuildSnapshot(
	effective map[catalog.EntityType]map[string]*overlay.EffectiveEntity,
	canonical []*catalog.Entity,
) *Snapshot {
	snap := NewSnapshot()

	for entityType, byKey := range effective {
		for key, eff := range byKey {
			snap.Status[entityType][key] = eff.Status

			if eff.PatchError != "" {
				snap.Problems = append(snap.Problems, Message{
					EntityKey: key,
					Severity:  SeverityWarning,
					Code:      CodePatchUnapplied,
					Message:   fmt.Sprintf("stored patch no longer applies: %s", eff.PatchError),
				})
			}

			if eff.Status == overlay.StatusDeleted {
				snap.Deleted[entityType][key] = true
				continue
			}

			if err := snap.decodeInto(entityType, key, eff); err != nil {
				snap.Problems = append(snap.Problems, Message{
					EntityKey: key,
					Severity:  SeverityError,
					Code:      CodeMalformedBody,
					Message:   err.Error(),
				})
			}
		}
	}

	for _, e := range canonical {
		switch e.EntityType {
		case catalog.TypeProperty:
			if body, err := catalog.DecodePropertyBody(e.Body); err == nil {
				snap.CanonicalProperties[e.EntityKey] = body
			}
		case catalog.TypeModule:
			if body, err := catalog.DecodeModuleBody(e.Body); err == nil {
				snap.CanonicalModules[e.EntityKey] = body
			}
		case catalog.TypeBundle:
			if body, err := catalog.DecodeBundleBody(e.Body); err == nil {
				snap.CanonicalBundles[e.EntityKey] = body
			}
		}
	}

	return snap
}

func (s *Snapshot) decodeInto(entityType catalog.EntityType, key string, eff *overlay.EffectiveEntity) error {
	switch entityType {
	case catalog.TypeCategory:
		body, err := catalog.DecodeCategoryBody(eff.Body)
		if err != nil {
			return err
		}
		s.Categories[key] = body
	case catalog.TypeProperty:
		body, err := catalog.DecodePropertyBody(eff.Body)
		if err != nil {
			return err
		}
		s.Properties[key] = body
	case catalog.TypeSubobject:
		body, err := catalog.DecodeSubobjectBody(eff.Body)
		if err != nil {
			return err
		}
		s.Subobjects[key] = body
	case catalog.TypeModule:
		body, err := catalog.DecodeModuleBody(eff.Body)
		if err != nil {
			return err
		}
		s.Modules[key] = body
	case catalog.TypeBundle:
		body, err := catalog.DecodeBundleBody(eff.Body)
		if err != nil {
			return err
		}
		s.Bundles[key] = body
	case catalog.TypeTemplate:
		body, err := catalog.DecodeTemplateBody(eff.Body)
		if err != nil {
			return err
		}
		s.Templates[key] = body
	}
	return nil
}

// touched reports whether anything about a key of a type differs from
// canonical.
func (s *Snapshot) touched(entityType catalog.EntityType, key string) bool {
	switch s.Status[entityType][key] {
	case overlay.StatusAdded, overlay.StatusModified, overlay.StatusDeleted:
		return true
	}
	return false
}
