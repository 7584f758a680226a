package drafts

import (
	"encoding/json"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// UpsertAction says how a resolved change maps onto the change log.
type UpsertAction string

const (
	// ActionUpsert inserts or replaces the row for this key.
	ActionUpsert UpsertAction = "upsert"
	// ActionRemove deletes the prior row; create-then-delete collapses to
	// nothing rather than leaving a tombstone.
	ActionRemove UpsertAction = "remove"
	// ActionNoop leaves the log untouched.
	ActionNoop UpsertAction = "noop"
)

// UpsertDecision is the outcome of folding a proposed change into the log.
type UpsertDecision struct {
	Action UpsertAction
	Op     ChangeOp
	Body   json.RawMessage
	Patch  json.RawMessage
}

// ResolveUpsert folds a proposed change into the existing state for its key:
// whether the entity exists canonically and what prior change, if any, the
// draft already holds. It never touches storage; the service persists the
// decision atomically.
func ResolveUpsert(op ChangeOp, canonicalExists bool, prior *DraftChange, body, patch json.RawMessage) (*UpsertDecision, error) {
	switch op {
	case OpCreate:
		if canonicalExists {
			return nil, apperror.ErrConflict.WithMessage("entity already exists canonically")
		}
		if prior != nil {
			return nil, apperror.ErrConflict.WithMessage("entity already created in this draft")
		}
		if len(body) == 0 {
			body = json.RawMessage(`{}`)
		}
		if !json.Valid(body) {
			return nil, apperror.ErrBadRequest.WithMessage("create body is not valid JSON")
		}
		return &UpsertDecision{Action: ActionUpsert, Op: OpCreate, Body: body}, nil

	case OpUpdate:
		if err := ValidatePatch(patch); err != nil {
			return nil, apperror.ErrBadRequest.WithMessage(err.Error())
		}
		if prior == nil {
			if !canonicalExists {
				return nil, apperror.ErrBadRequest.WithMessage("cannot update an entity that does not exist")
			}
			return &UpsertDecision{Action: ActionUpsert, Op: OpUpdate, Patch: patch}, nil
		}
		switch prior.Op {
		case OpCreate:
			// The entity only exists inside the draft: rewrite the staged
			// body and stay a create.
			rewritten, err := ApplyPatch(prior.Body, patch)
			if err != nil {
				return nil, apperror.ErrBadRequest.WithMessage(err.Error())
			}
			return &UpsertDecision{Action: ActionUpsert, Op: OpCreate, Body: rewritten}, nil
		case OpUpdate:
			combined, err := CombinePatches(prior.Patch, patch)
			if err != nil {
				return nil, apperror.ErrBadRequest.WithMessage(err.Error())
			}
			return &UpsertDecision{Action: ActionUpsert, Op: OpUpdate, Patch: combined}, nil
		case OpDelete:
			return nil, apperror.ErrConflict.WithMessage("entity is deleted in this draft")
		}

	case OpDelete:
		if prior == nil {
			if !canonicalExists {
				return nil, apperror.ErrBadRequest.WithMessage("cannot delete an entity that does not exist")
			}
			return &UpsertDecision{Action: ActionUpsert, Op: OpDelete}, nil
		}
		switch prior.Op {
		case OpCreate:
			return &UpsertDecision{Action: ActionRemove}, nil
		case OpUpdate:
			return &UpsertDecision{Action: ActionUpsert, Op: OpDelete}, nil
		case OpDelete:
			return &UpsertDecision{Action: ActionNoop, Op: OpDelete}, nil
		}
	}

	return nil, apperror.ErrBadRequest.WithMessage("unknown change op")
}
