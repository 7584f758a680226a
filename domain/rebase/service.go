package rebase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
	"github.com/ontocraft/ontocraft/domain/versions"
	"github.com/ontocraft/ontocraft/internal/database"
	"github.com/ontocraft/ontocraft/pkg/apperror"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

// Result reports what a rebase did to one draft.
type Result struct {
	DraftID       string     `json:"draft_id"`
	Rebased       bool       `json:"rebased"`
	Stale         bool       `json:"stale"`
	FromVersionID string     `json:"from_version_id"`
	ToVersionID   string     `json:"to_version_id"`
	Conflicts     []Conflict `json:"conflicts"`
}

// Service reconciles drafts with canonical versions newer than their base.
type Service struct {
	db       *bun.DB
	drafts   *drafts.Store
	versions *versions.Store
	catalog  *catalog.Store
	log      *slog.Logger
}

// NewService creates a new rebase service.
func NewService(db *bun.DB, draftStore *drafts.Store, versionStore *versions.Store, catalogStore *catalog.Store, log *slog.Logger) *Service {
	return &Service{
		db:       db,
		drafts:   draftStore,
		versions: versionStore,
		catalog:  catalogStore,
		log:      log.With(logger.Scope("rebase")),
	}
}

// Rebase moves a draft onto a new canonical version. Every stored change is
// probed against the new version: creates conflict when their key now exists,
// updates when their target is gone or their patch no longer applies, deletes
// when their target is gone. Conflicts mark the draft stale; the stored
// changes themselves are never rewritten. A validated draft drops back to
// active, since its clean run no longer speaks for the new base.
//
// An empty newVersionID targets the current version. Rebasing onto the draft's
// existing base is a no-op with Rebased false.
func (s *Service) Rebase(ctx context.Context, draftID, newVersionID string) (*Result, error) {
	draft, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if draft == nil {
		return nil, apperror.ErrNotFound.WithMessage("draft not found")
	}
	if !draft.Status.Rebasable() {
		return nil, apperror.ErrConflict.WithMessage(
			fmt.Sprintf("draft in status %q cannot be rebased", draft.Status))
	}

	target, err := s.resolveTarget(ctx, newVersionID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DraftID:       draft.ID,
		FromVersionID: draft.BaseVersionID,
		ToVersionID:   target.ID,
		Conflicts:     []Conflict{},
	}
	if draft.BaseVersionID == target.ID {
		return result, nil
	}

	changes, err := s.drafts.ListChanges(ctx, draftID)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	bodies, err := s.canonicalBodies(ctx, target.ID, changes)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	conflicts := EvaluateChanges(changes, bodies)
	stale := len(conflicts) > 0

	tx, err := database.BeginSafeTx(ctx, s.db)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := s.drafts.AdvanceBase(ctx, tx, draftID, target.ID, draft.BaseVersionID, stale, time.Now()); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if draft.Status == drafts.StatusValidated {
		if err := s.drafts.SetStatus(ctx, tx, draftID, drafts.StatusActive); err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	result.Rebased = true
	result.Stale = stale
	result.Conflicts = conflicts

	outcome := "clean"
	if stale {
		outcome = "conflicts"
		conflictsTotal.Add(float64(len(conflicts)))
	}
	runsTotal.WithLabelValues(outcome).Inc()

	s.log.Info("draft rebased",
		slog.String("draft_id", draftID),
		slog.String("from_version_id", result.FromVersionID),
		slog.String("to_version_id", target.ID),
		slog.Int("conflicts", len(conflicts)),
	)
	return result, nil
}

// Sweep rebases every active or validated draft left behind by the current
// version. Failures on one draft are logged and do not stop the sweep.
func (s *Service) Sweep(ctx context.Context) error {
	current, err := s.versions.GetCurrent(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if current == nil {
		return nil
	}

	stranded, err := s.drafts.ListRebasable(ctx, current.ID)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	for _, draft := range stranded {
		if _, err := s.Rebase(ctx, draft.ID, current.ID); err != nil {
			s.log.Error("sweep rebase failed",
				slog.String("draft_id", draft.ID),
				logger.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) resolveTarget(ctx context.Context, newVersionID string) (*versions.OntologyVersion, error) {
	if newVersionID == "" {
		current, err := s.versions.GetCurrent(ctx)
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
		if current == nil {
			return nil, apperror.ErrConflict.WithMessage("no current ontology version to rebase onto")
		}
		return current, nil
	}

	target, err := s.versions.GetByID(ctx, newVersionID)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if target == nil {
		return nil, apperror.ErrNotFound.WithMessage("ontology version not found")
	}
	if target.Status != versions.StatusIngested {
		return nil, apperror.ErrConflict.WithMessage(
			fmt.Sprintf("ontology version is %s, not ingested", target.Status))
	}
	return target, nil
}

// canonicalBodies loads the new version's bodies for exactly the keys the
// change log touches, batched per entity type.
func (s *Service) canonicalBodies(ctx context.Context, versionID string, changes []*drafts.DraftChange) (map[catalog.EntityType]map[string]json.RawMessage, error) {
	keysByType := map[catalog.EntityType][]string{}
	for _, change := range changes {
		keysByType[change.EntityType] = append(keysByType[change.EntityType], change.EntityKey)
	}

	out := map[catalog.EntityType]map[string]json.RawMessage{}
	for entityType, keys := range keysByType {
		entities, err := s.catalog.GetEntities(ctx, versionID, entityType, keys)
		if err != nil {
			return nil, err
		}
		byKey := make(map[string]json.RawMessage, len(entities))
		for _, e := range entities {
			byKey[e.EntityKey] = e.Body
		}
		out[entityType] = byKey
	}
	return out, nil
}
