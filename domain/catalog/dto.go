package catalog

import "encoding/json"

// EntityResponse is the response DTO for a canonical entity.
type EntityResponse struct {
	VersionID  string          `json:"version_id"`
	EntityType EntityType      `json:"entity_type"`
	EntityKey  string          `json:"entity_key"`
	Body       json.RawMessage `json:"body"`
}

// ToResponse converts an Entity to an EntityResponse.
func ToResponse(e *Entity) *EntityResponse {
	return &EntityResponse{
		VersionID:  e.VersionID,
		EntityType: e.EntityType,
		EntityKey:  e.EntityKey,
		Body:       e.Body,
	}
}

// ToResponseList converts a slice of entities to responses.
func ToResponseList(entities []*Entity) []*EntityResponse {
	result := make([]*EntityResponse, len(entities))
	for i, e := range entities {
		result[i] = ToResponse(e)
	}
	return result
}

// EffectivePropertyResponse is the response DTO for a materialized inherited
// property row.
type EffectivePropertyResponse struct {
	PropertyKey       string `json:"property_key"`
	SourceCategoryKey string `json:"source_category_key"`
	Required          bool   `json:"required"`
	Depth             int    `json:"depth"`
}

// ToEffectiveResponseList converts materialized rows to responses.
func ToEffectiveResponseList(rows []*EffectiveProperty) []*EffectivePropertyResponse {
	result := make([]*EffectivePropertyResponse, len(rows))
	for i, r := range rows {
		result[i] = &EffectivePropertyResponse{
			PropertyKey:       r.PropertyKey,
			SourceCategoryKey: r.SourceCategoryKey,
			Required:          r.Required,
			Depth:             r.Depth,
		}
	}
	return result
}
