package drafts

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	"github.com/ontocraft/ontocraft/domain/catalog"
)

// DraftStatus is the lifecycle state of a draft.
type DraftStatus string

const (
	StatusActive    DraftStatus = "active"
	StatusValidated DraftStatus = "validated"
	StatusSubmitted DraftStatus = "submitted"
	StatusMerged    DraftStatus = "merged"
	StatusAbandoned DraftStatus = "abandoned"
)

// Editable reports whether a draft in this status accepts edits. A validated
// draft is still editable; any edit drops it back to active.
func (s DraftStatus) Editable() bool {
	return s == StatusActive || s == StatusValidated
}

// Rebasable reports whether a draft in this status may be rebased.
func (s DraftStatus) Rebasable() bool {
	return s == StatusActive || s == StatusValidated
}

// CanTransition reports whether a draft may move from one status to another.
// Merged and abandoned are terminal.
func CanTransition(from, to DraftStatus) bool {
	switch from {
	case StatusActive:
		return to == StatusValidated || to == StatusSubmitted || to == StatusAbandoned
	case StatusValidated:
		return to == StatusActive || to == StatusSubmitted || to == StatusAbandoned
	case StatusSubmitted:
		return to == StatusMerged || to == StatusAbandoned
	}
	return false
}

// ChangeOp is the kind of a proposed draft change.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ParseChangeOp parses a string into a ChangeOp.
func ParseChangeOp(s string) (ChangeOp, bool) {
	switch ChangeOp(s) {
	case OpCreate, OpUpdate, OpDelete:
		return ChangeOp(s), true
	}
	return "", false
}

// Draft is a named set of proposed changes over one canonical version, in
// ont.drafts.
type Draft struct {
	bun.BaseModel `bun:"table:ont.drafts,alias:d"`

	ID                   string      `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name                 string      `bun:"name,notnull"`
	BaseVersionID        string      `bun:"base_version_id,notnull,type:uuid"`
	Status               DraftStatus `bun:"status,notnull,default:'active'"`
	Stale                bool        `bun:"stale,notnull,default:false"`
	RebasedFromVersionID *string     `bun:"rebased_from_version_id,type:uuid"`
	RebasedAt            *time.Time  `bun:"rebased_at"`
	CreatedAt            time.Time   `bun:"created_at,notnull,default:now()"`
	UpdatedAt            time.Time   `bun:"updated_at,notnull,default:now()"`
}

// DraftChange is one proposed change in ont.draft_changes. At most one live
// change exists per (draft, type, key); successive edits fold into it.
// Update patches are RFC 6902 arrays stored verbatim, in the order the author
// produced them.
type DraftChange struct {
	bun.BaseModel `bun:"table:ont.draft_changes,alias:dc"`

	ID         string             `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	DraftID    string             `bun:"draft_id,notnull,type:uuid"`
	EntityType catalog.EntityType `bun:"entity_type,notnull"`
	EntityKey  string             `bun:"entity_key,notnull"`
	Op         ChangeOp           `bun:"op,notnull"`
	Body       json.RawMessage    `bun:"body,type:jsonb"`
	Patch      json.RawMessage    `bun:"patch,type:jsonb"`
	Seq        int64              `bun:"seq,autoincrement,scanonly"`
	CreatedAt  time.Time          `bun:"created_at,notnull,default:now()"`
	UpdatedAt  time.Time          `bun:"updated_at,notnull,default:now()"`
}
