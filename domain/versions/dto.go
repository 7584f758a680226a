package versions

import (
	"encoding/json"
	"time"
)

// IngestEntity is one entity in an ingest payload.
type IngestEntity struct {
	Type string          `json:"type"`
	Key  string          `json:"key"`
	Body json.RawMessage `json:"body"`
}

// IngestRequest is the request DTO for loading a new ontology version.
type IngestRequest struct {
	SourceRef string         `json:"source_ref"`
	CommitSHA string         `json:"commit_sha"`
	Entities  []IngestEntity `json:"entities"`
}

// VersionResponse is the response DTO for an ontology version.
type VersionResponse struct {
	ID           string          `json:"id"`
	SourceRef    string          `json:"source_ref"`
	CommitSHA    string          `json:"commit_sha"`
	Status       VersionStatus   `json:"status"`
	IngestErrors json.RawMessage `json:"ingest_errors,omitempty"`
	IsCurrent    bool            `json:"is_current"`
	CreatedAt    string          `json:"created_at"`
}

// ToResponse converts an OntologyVersion to a VersionResponse.
func ToResponse(v *OntologyVersion) *VersionResponse {
	return &VersionResponse{
		ID:           v.ID,
		SourceRef:    v.SourceRef,
		CommitSHA:    v.CommitSHA,
		Status:       v.Status,
		IngestErrors: v.IngestErrors,
		IsCurrent:    v.IsCurrent,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339Nano),
	}
}

// ToResponseList converts a slice of versions to responses.
func ToResponseList(vs []*OntologyVersion) []*VersionResponse {
	result := make([]*VersionResponse, len(vs))
	for i, v := range vs {
		result[i] = ToResponse(v)
	}
	return result
}
