package drafts

import (
	"context"
	"log/slog"
	"strings"

	"github.com/uptrace/bun"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/versions"
	"github.com/ontocraft/ontocraft/internal/database"
	"github.com/ontocraft/ontocraft/pkg/apperror"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

// Service handles business logic for drafts and their change log.
type Service struct {
	db       *bun.DB
	store    *Store
	versions *versions.Store
	catalog  *catalog.Store
	log      *slog.Logger
}

// NewService creates a new drafts service.
func NewService(db *bun.DB, store *Store, versionStore *versions.Store, catalogStore *catalog.Store, log *slog.Logger) *Service {
	return &Service{
		db:       db,
		store:    store,
		versions: versionStore,
		catalog:  catalogStore,
		log:      log.With(logger.Scope("drafts")),
	}
}

// Create opens a new draft bound to the current ontology version.
func (s *Service) Create(ctx context.Context, req *CreateDraftRequest) (*Draft, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.ErrBadRequest.WithMessage("name is required")
	}

	current, err := s.versions.GetCurrent(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if current == nil {
		return nil, apperror.ErrConflict.WithMessage("no current ontology version to draft against")
	}

	draft, err := s.store.Create(ctx, &Draft{
		Name:          name,
		BaseVersionID: current.ID,
		Status:        StatusActive,
	})
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	s.log.Info("draft created",
		slog.String("draft_id", draft.ID),
		slog.String("base_version_id", draft.BaseVersionID),
	)
	return draft, nil
}

// GetByID returns one draft.
func (s *Service) GetByID(ctx context.Context, id string) (*Draft, error) {
	draft, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if draft == nil {
		return nil, apperror.ErrNotFound.WithMessage("draft not found")
	}
	return draft, nil
}

// List returns all drafts, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *DraftStatus) ([]*Draft, error) {
	out, err := s.store.List(ctx, status)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return out, nil
}

// Transition moves a draft to a new lifecycle status. Submission requires the
// draft to have passed validation first, which is what the validated status
// records.
func (s *Service) Transition(ctx context.Context, id string, to DraftStatus) (*Draft, error) {
	draft, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if to == StatusSubmitted && draft.Status != StatusValidated {
		return nil, apperror.ErrConflict.WithMessage("draft must pass validation before submission")
	}
	if !CanTransition(draft.Status, to) {
		return nil, apperror.ErrConflict.WithMessage(
			"cannot transition draft from " + string(draft.Status) + " to " + string(to))
	}

	updated, err := s.store.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if updated == nil {
		return nil, apperror.ErrNotFound.WithMessage("draft not found")
	}

	s.log.Info("draft transitioned",
		slog.String("draft_id", id),
		slog.String("from", string(draft.Status)),
		slog.String("to", string(to)),
	)
	return updated, nil
}

// MarkValidated records a clean validation run. Only an active draft moves;
// a draft already validated stays validated.
func (s *Service) MarkValidated(ctx context.Context, id string) error {
	draft, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if draft.Status != StatusActive {
		return nil
	}
	if _, err := s.store.UpdateStatus(ctx, id, StatusValidated); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpsertChange folds a proposed change into the draft's change log. At most
// one live change survives per (type, key); see ResolveUpsert for the folding
// rules. Any edit drops a validated draft back to active.
func (s *Service) UpsertChange(ctx context.Context, draftID string, req *UpsertChangeRequest) (*DraftChange, error) {
	draft, err := s.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !draft.Status.Editable() {
		return nil, apperror.ErrDraftNotEditable
	}

	entityType, err := catalog.ParseEntityType(req.EntityType)
	if err != nil {
		return nil, apperror.ErrBadRequest.WithMessage("unknown entity type")
	}
	if req.EntityKey == "" {
		return nil, apperror.ErrBadRequest.WithMessage("entity key required")
	}
	op, ok := ParseChangeOp(req.Op)
	if !ok {
		return nil, apperror.ErrBadRequest.WithMessage("op must be create, update or delete")
	}

	canonical, err := s.catalog.GetEntity(ctx, draft.BaseVersionID, entityType, req.EntityKey)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	prior, err := s.store.GetChange(ctx, draftID, entityType, req.EntityKey)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	decision, err := ResolveUpsert(op, canonical != nil, prior, req.Body, req.Patch)
	if err != nil {
		return nil, err
	}

	tx, err := database.BeginSafeTx(ctx, s.db)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	var result *DraftChange
	switch decision.Action {
	case ActionUpsert:
		result, err = s.store.UpsertChange(ctx, tx, &DraftChange{
			DraftID:    draftID,
			EntityType: entityType,
			EntityKey:  req.EntityKey,
			Op:         decision.Op,
			Body:       decision.Body,
			Patch:      decision.Patch,
		})
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
	case ActionRemove:
		if _, err := s.store.DeleteChange(ctx, tx, draftID, entityType, req.EntityKey); err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
	case ActionNoop:
		result = prior
	}

	if draft.Status == StatusValidated {
		if err := s.store.SetStatus(ctx, tx, draftID, StatusActive); err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return result, nil
}

// RemoveChange reverts a single proposed change.
func (s *Service) RemoveChange(ctx context.Context, draftID, entityTypeRaw, entityKey string) error {
	draft, err := s.GetByID(ctx, draftID)
	if err != nil {
		return err
	}
	if !draft.Status.Editable() {
		return apperror.ErrDraftNotEditable
	}

	entityType, err := catalog.ParseEntityType(entityTypeRaw)
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("unknown entity type")
	}

	deleted, err := s.store.DeleteChange(ctx, s.db, draftID, entityType, entityKey)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if !deleted {
		return apperror.ErrNotFound.WithMessage("no change for that entity in this draft")
	}

	if draft.Status == StatusValidated {
		if _, err := s.store.UpdateStatus(ctx, draftID, StatusActive); err != nil {
			return apperror.ErrDatabase.WithInternal(err)
		}
	}
	return nil
}

// ListChanges returns a draft's change log in proposal order.
func (s *Service) ListChanges(ctx context.Context, draftID string) ([]*DraftChange, error) {
	if _, err := s.GetByID(ctx, draftID); err != nil {
		return nil, err
	}
	out, err := s.store.ListChanges(ctx, draftID)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return out, nil
}
