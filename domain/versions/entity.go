package versions

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// VersionStatus is the lifecycle state of an ontology version.
type VersionStatus string

const (
	StatusPending  VersionStatus = "pending"
	StatusIngested VersionStatus = "ingested"
	StatusFailed   VersionStatus = "failed"
)

// OntologyVersion is an immutable snapshot of the ontology source in
// ont.ontology_versions. Once ingested its entities never change; new loads
// create new versions.
type OntologyVersion struct {
	bun.BaseModel `bun:"table:ont.ontology_versions,alias:ov"`

	ID           string          `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	SourceRef    string          `bun:"source_ref,notnull"`
	CommitSHA    string          `bun:"commit_sha,notnull"`
	Status       VersionStatus   `bun:"status,notnull,default:'pending'"`
	IngestErrors json.RawMessage `bun:"ingest_errors,type:jsonb"`
	IsCurrent    bool            `bun:"is_current,notnull,default:false"`
	CreatedAt    time.Time       `bun:"created_at,notnull,default:now()"`
}
