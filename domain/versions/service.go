package versions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/internal/database"
	"github.com/ontocraft/ontocraft/pkg/apperror"
	"github.com/ontocraft/ontocraft/pkg/logger"
	"github.com/ontocraft/ontocraft/pkg/pgutils"
)

// Service handles the ontology version lifecycle and the ingest pipeline.
type Service struct {
	db      *bun.DB
	store   *Store
	catalog *catalog.Store
	log     *slog.Logger
}

// NewService creates a new versions service.
func NewService(db *bun.DB, store *Store, catalogStore *catalog.Store, log *slog.Logger) *Service {
	return &Service{
		db:      db,
		store:   store,
		catalog: catalogStore,
		log:     log.With(logger.Scope("versions")),
	}
}

// GetCurrent returns the current ontology version.
func (s *Service) GetCurrent(ctx context.Context) (*OntologyVersion, error) {
	v, err := s.store.GetCurrent(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if v == nil {
		return nil, apperror.ErrNotFound.WithMessage("no current ontology version")
	}
	return v, nil
}

// GetByID returns one version.
func (s *Service) GetByID(ctx context.Context, id string) (*OntologyVersion, error) {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if v == nil {
		return nil, apperror.ErrNotFound.WithMessage("ontology version not found")
	}
	return v, nil
}

// List returns all versions, newest first.
func (s *Service) List(ctx context.Context) ([]*OntologyVersion, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return out, nil
}

// Ingest loads a full ontology snapshot as a new version and makes it
// current. The canonical tables for the new version are written in one
// transaction; the materialized inheritance view is rebuilt afterwards and
// the current pointer flips last. Load failures leave the version in failed
// state with the errors recorded, and the previous current version intact.
func (s *Service) Ingest(ctx context.Context, req *IngestRequest) (*OntologyVersion, error) {
	entities, err := buildEntities(req)
	if err != nil {
		return nil, apperror.ErrBadRequest.WithMessage(err.Error())
	}

	version, err := s.store.Create(ctx, s.db, &OntologyVersion{
		SourceRef: req.SourceRef,
		CommitSHA: req.CommitSHA,
		Status:    StatusPending,
	})
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	log := s.log.With(slog.String("version_id", version.ID), slog.String("source_ref", req.SourceRef))
	log.Info("ingest started", slog.Int("entities", len(entities)))

	if err := s.load(ctx, version.ID, entities); err != nil {
		log.Error("ingest failed", logger.Error(err))
		if ferr := s.store.MarkFailed(ctx, version.ID, []string{err.Error()}); ferr != nil {
			log.Error("could not record ingest failure", logger.Error(ferr))
		}
		if appErr, ok := err.(*apperror.Error); ok {
			return nil, appErr
		}
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	finished, err := s.store.GetByID(ctx, version.ID)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	log.Info("ingest completed")
	return finished, nil
}

func (s *Service) load(ctx context.Context, versionID string, entities []*catalog.Entity) error {
	for _, e := range entities {
		e.VersionID = versionID
	}

	rel, err := catalog.DeriveRelations(versionID, entities)
	if err != nil {
		return apperror.ErrBadRequest.WithMessage(err.Error())
	}

	tx, err := database.BeginSafeTx(ctx, s.db)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := s.catalog.InsertEntities(ctx, tx, entities); err != nil {
		if pgutils.IsUniqueViolation(err) {
			return apperror.ErrConflict.WithMessage("version already holds an entity with that type and key").WithInternal(err)
		}
		return err
	}
	if err := s.catalog.InsertEdges(ctx, tx, rel.Parents, rel.Links, rel.Members, rel.Bundles); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if err := s.catalog.RebuildEffectiveProperties(ctx, versionID); err != nil {
		return err
	}

	if err := s.CheckEdgeIntegrity(ctx, versionID); err != nil {
		return err
	}

	flip, err := database.BeginSafeTx(ctx, s.db)
	if err != nil {
		return err
	}
	defer flip.Rollback() //nolint:errcheck

	if err := s.store.MarkCurrent(ctx, flip, versionID); err != nil {
		return err
	}
	return flip.Commit()
}

// CheckEdgeIntegrity verifies that every relationship row of a version
// resolves inside that version. A violation means canonical data is corrupt
// and is surfaced as a hard error, never as a validation message.
func (s *Service) CheckEdgeIntegrity(ctx context.Context, versionID string) error {
	count, err := s.catalog.CrossVersionEdgeCount(ctx, versionID)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if count > 0 {
		return apperror.ErrIntegrity.WithMessage(
			fmt.Sprintf("%d relationship rows have dangling endpoints in version %s", count, versionID))
	}
	return nil
}

// buildEntities validates and converts an ingest payload. Duplicate
// (type, key) pairs and unknown types are payload errors.
func buildEntities(req *IngestRequest) ([]*catalog.Entity, error) {
	if req.SourceRef == "" {
		return nil, fmt.Errorf("source_ref is required")
	}
	if len(req.Entities) == 0 {
		return nil, fmt.Errorf("at least one entity is required")
	}

	seen := map[string]bool{}
	out := make([]*catalog.Entity, 0, len(req.Entities))
	for i, in := range req.Entities {
		entityType, err := catalog.ParseEntityType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		if in.Key == "" {
			return nil, fmt.Errorf("entity %d: key is required", i)
		}
		id := in.Type + "/" + in.Key
		if seen[id] {
			return nil, fmt.Errorf("duplicate entity %s", id)
		}
		seen[id] = true

		body := in.Body
		if len(body) == 0 {
			body = []byte("{}")
		}
		out = append(out, &catalog.Entity{
			EntityType: entityType,
			EntityKey:  in.Key,
			Body:       body,
		})
	}
	return out, nil
}
