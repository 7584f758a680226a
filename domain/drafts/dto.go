package drafts

import (
	"encoding/json"
	"time"
)

// CreateDraftRequest is the request DTO for opening a draft.
type CreateDraftRequest struct {
	Name string `json:"name"`
}

// TransitionRequest is the request DTO for a lifecycle transition.
type TransitionRequest struct {
	Status string `json:"status"`
}

// UpsertChangeRequest is the request DTO for proposing a change.
type UpsertChangeRequest struct {
	EntityType string          `json:"entity_type"`
	EntityKey  string          `json:"entity_key"`
	Op         string          `json:"op"`
	Body       json.RawMessage `json:"body,omitempty"`
	Patch      json.RawMessage `json:"patch,omitempty"`
}

// DraftResponse is the response DTO for a draft.
type DraftResponse struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	BaseVersionID        string      `json:"base_version_id"`
	Status               DraftStatus `json:"status"`
	Stale                bool        `json:"stale"`
	RebasedFromVersionID *string     `json:"rebased_from_version_id,omitempty"`
	RebasedAt            *string     `json:"rebased_at,omitempty"`
	CreatedAt            string      `json:"created_at"`
	UpdatedAt            string      `json:"updated_at"`
}

// ToResponse converts a Draft to a DraftResponse.
func ToResponse(d *Draft) *DraftResponse {
	resp := &DraftResponse{
		ID:                   d.ID,
		Name:                 d.Name,
		BaseVersionID:        d.BaseVersionID,
		Status:               d.Status,
		Stale:                d.Stale,
		RebasedFromVersionID: d.RebasedFromVersionID,
		CreatedAt:            d.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:            d.UpdatedAt.Format(time.RFC3339Nano),
	}
	if d.RebasedAt != nil {
		at := d.RebasedAt.Format(time.RFC3339Nano)
		resp.RebasedAt = &at
	}
	return resp
}

// ToResponseList converts a slice of drafts to responses.
func ToResponseList(ds []*Draft) []*DraftResponse {
	result := make([]*DraftResponse, len(ds))
	for i, d := range ds {
		result[i] = ToResponse(d)
	}
	return result
}

// ChangeResponse is the response DTO for a draft change.
type ChangeResponse struct {
	ID         string          `json:"id"`
	DraftID    string          `json:"draft_id"`
	EntityType string          `json:"entity_type"`
	EntityKey  string          `json:"entity_key"`
	Op         ChangeOp        `json:"op"`
	Body       json.RawMessage `json:"body,omitempty"`
	Patch      json.RawMessage `json:"patch,omitempty"`
	UpdatedAt  string          `json:"updated_at"`
}

// ToChangeResponse converts a DraftChange to a ChangeResponse.
func ToChangeResponse(c *DraftChange) *ChangeResponse {
	return &ChangeResponse{
		ID:         c.ID,
		DraftID:    c.DraftID,
		EntityType: string(c.EntityType),
		EntityKey:  c.EntityKey,
		Op:         c.Op,
		Body:       c.Body,
		Patch:      c.Patch,
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// ToChangeResponseList converts a slice of changes to responses.
func ToChangeResponseList(cs []*DraftChange) []*ChangeResponse {
	result := make([]*ChangeResponse, len(cs))
	for i, c := range cs {
		result[i] = ToChangeResponse(c)
	}
	return result
}
