package catalog

import "fmt"

// Relations holds the relationship rows derived from a set of entity bodies.
type Relations struct {
	Parents []*ParentEdge
	Links   []*PropertyLink
	Members []*ModuleMember
	Bundles []*BundleModule
}

// DeriveRelations extracts the relationship tables from entity bodies at
// ingest time. Edges always carry the version of the entities they were
// derived from, so endpoints of an edge live in the same version by
// construction. Unresolvable references are left to validation; a malformed
// body is an ingest error.
func DeriveRelations(versionID string, entities []*Entity) (*Relations, error) {
	rel := &Relations{}

	for _, e := range entities {
		switch e.EntityType {
		case TypeCategory:
			body, err := DecodeCategoryBody(e.Body)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", e.EntityKey, err)
			}
			for _, parent := range body.Parents {
				rel.Parents = append(rel.Parents, &ParentEdge{
					VersionID: versionID,
					ChildKey:  e.EntityKey,
					ParentKey: parent,
				})
			}
			for _, ref := range body.Properties {
				rel.Links = append(rel.Links, &PropertyLink{
					VersionID:   versionID,
					CategoryKey: e.EntityKey,
					PropertyKey: ref.Key,
					Required:    ref.Required,
					Origin:      "direct",
				})
			}

		case TypeSubobject:
			body, err := DecodeSubobjectBody(e.Body)
			if err != nil {
				return nil, fmt.Errorf("subobject %s: %w", e.EntityKey, err)
			}
			for _, ref := range body.Properties {
				rel.Links = append(rel.Links, &PropertyLink{
					VersionID:   versionID,
					CategoryKey: e.EntityKey,
					PropertyKey: ref.Key,
					Required:    ref.Required,
					Origin:      "subobject",
				})
			}

		case TypeModule:
			body, err := DecodeModuleBody(e.Body)
			if err != nil {
				return nil, fmt.Errorf("module %s: %w", e.EntityKey, err)
			}
			for _, member := range body.Members {
				rel.Members = append(rel.Members, &ModuleMember{
					VersionID:  versionID,
					ModuleKey:  e.EntityKey,
					MemberType: member.Type,
					MemberKey:  member.Key,
				})
			}

		case TypeBundle:
			body, err := DecodeBundleBody(e.Body)
			if err != nil {
				return nil, fmt.Errorf("bundle %s: %w", e.EntityKey, err)
			}
			for _, moduleKey := range body.Modules {
				rel.Bundles = append(rel.Bundles, &BundleModule{
					VersionID: versionID,
					BundleKey: e.EntityKey,
					ModuleKey: moduleKey,
				})
			}
		}
	}

	return rel, nil
}
