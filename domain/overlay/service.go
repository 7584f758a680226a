package overlay

import (
	"context"
	"log/slog"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
	"github.com/ontocraft/ontocraft/domain/versions"
	"github.com/ontocraft/ontocraft/internal/config"
	"github.com/ontocraft/ontocraft/pkg/apperror"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

// Service computes effective entities for read paths. Every method is a pure
// read: the overlay is recomputed per request and nothing is written back.
type Service struct {
	catalog  *catalog.Store
	drafts   *drafts.Store
	versions *versions.Store
	cfg      *config.Config
	log      *slog.Logger
}

// NewService creates a new overlay service.
func NewService(catalogStore *catalog.Store, draftStore *drafts.Store, versionStore *versions.Store, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		catalog:  catalogStore,
		drafts:   draftStore,
		versions: versionStore,
		cfg:      cfg,
		log:      log.With(logger.Scope("overlay")),
	}
}

// View pins a request to one version and, optionally, one draft.
type View struct {
	VersionID string
	Draft     *drafts.Draft
}

// ResolveView turns an optional draft id into a concrete view. An empty id
// means the plain canonical view over the current version.
func (s *Service) ResolveView(ctx context.Context, draftID string) (*View, error) {
	if draftID == "" {
		current, err := s.versions.GetCurrent(ctx)
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
		if current == nil {
			return nil, apperror.ErrNotFound.WithMessage("no current ontology version")
		}
		return &View{VersionID: current.ID}, nil
	}

	draft, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if draft == nil {
		return nil, apperror.ErrNotFound.WithMessage("draft not found")
	}
	return &View{VersionID: draft.BaseVersionID, Draft: draft}, nil
}

// Effective returns one entity as seen through the view. Deleted entities
// come back with their marker rather than a 404, so frontends can render the
// pending removal.
func (s *Service) Effective(ctx context.Context, view *View, entityType catalog.EntityType, entityKey string) (*EffectiveEntity, error) {
	canonical, err := s.catalog.GetEntity(ctx, view.VersionID, entityType, entityKey)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	var change *drafts.DraftChange
	if view.Draft != nil {
		change, err = s.drafts.GetChange(ctx, view.Draft.ID, entityType, entityKey)
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
	}

	eff := Overlay(canonical, change)
	if eff == nil {
		return nil, apperror.ErrNotFound.WithMessage("entity not found")
	}
	s.notePatchError(eff)
	return eff, nil
}

// EffectiveList returns all entities of one type as seen through the view,
// ordered by key with draft creations inlined.
func (s *Service) EffectiveList(ctx context.Context, view *View, entityType catalog.EntityType) ([]*EffectiveEntity, error) {
	canonical, err := s.catalog.ListByType(ctx, view.VersionID, entityType)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	var changes []*drafts.DraftChange
	if view.Draft != nil {
		changes, err = s.drafts.ListChangesByType(ctx, view.Draft.ID, entityType)
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
	}

	out := OverlayList(canonical, changes)
	for _, eff := range out {
		s.notePatchError(eff)
	}
	return out, nil
}

// EffectiveParents returns the parent keys of a category as seen through the
// view. A deleted category has no parents.
func (s *Service) EffectiveParents(ctx context.Context, view *View, categoryKey string) ([]string, error) {
	eff, err := s.Effective(ctx, view, catalog.TypeCategory, categoryKey)
	if err != nil {
		return nil, err
	}
	if eff.Status == StatusDeleted {
		return nil, nil
	}

	body, err := catalog.DecodeCategoryBody(eff.Body)
	if err != nil {
		return nil, apperror.ErrBadRequest.WithMessage(err.Error())
	}
	return body.Parents, nil
}

// EffectiveProperties returns the inherited property set of a category as
// seen through the view. When the draft touches no category, the materialized
// view answers directly; otherwise the parent chain is re-walked in memory
// over effective bodies, bounded by the configured max depth.
func (s *Service) EffectiveProperties(ctx context.Context, view *View, categoryKey string) ([]catalog.EffectivePropertyEntry, error) {
	if _, err := s.Effective(ctx, view, catalog.TypeCategory, categoryKey); err != nil {
		return nil, err
	}

	live := false
	if view.Draft != nil {
		changes, err := s.drafts.ListChangesByType(ctx, view.Draft.ID, catalog.TypeCategory)
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
		live = len(changes) > 0
	}

	if !live {
		rows, err := s.catalog.EffectivePropertiesFor(ctx, view.VersionID, []string{categoryKey})
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
		entries := make([]catalog.EffectivePropertyEntry, len(rows))
		for i, r := range rows {
			entries[i] = catalog.EffectivePropertyEntry{
				PropertyKey:       r.PropertyKey,
				SourceCategoryKey: r.SourceCategoryKey,
				Required:          r.Required,
				Depth:             r.Depth,
			}
		}
		return entries, nil
	}

	walker, err := s.categoryWalker(ctx, view)
	if err != nil {
		return nil, err
	}
	return catalog.ComputeEffectiveProperties(categoryKey, walker.parents, walker.props, s.cfg.Graph.MaxDepth), nil
}

// categoryWalker loads the full effective category set once and serves the
// walker callbacks from it. Deleted categories contribute nothing.
type categoryWalkerData struct {
	parents catalog.ParentsFunc
	props   catalog.DirectPropsFunc
}

func (s *Service) categoryWalker(ctx context.Context, view *View) (*categoryWalkerData, error) {
	categories, err := s.EffectiveList(ctx, view, catalog.TypeCategory)
	if err != nil {
		return nil, err
	}

	bodies := make(map[string]*catalog.CategoryBody, len(categories))
	for _, eff := range categories {
		if eff.Status == StatusDeleted {
			continue
		}
		body, err := catalog.DecodeCategoryBody(eff.Body)
		if err != nil {
			s.log.Warn("skipping malformed category body",
				slog.String("entity_key", eff.EntityKey),
				logger.Error(err),
			)
			continue
		}
		bodies[eff.EntityKey] = body
	}

	return &categoryWalkerData{
		parents: func(key string) []string {
			if b, ok := bodies[key]; ok {
				return b.Parents
			}
			return nil
		},
		props: func(key string) []catalog.PropertyRef {
			if b, ok := bodies[key]; ok {
				return b.Properties
			}
			return nil
		},
	}, nil
}

// EffectiveSnapshot loads every entity of every type as seen through the
// view, keyed by type then key. Validation and export consume this.
func (s *Service) EffectiveSnapshot(ctx context.Context, view *View) (map[catalog.EntityType]map[string]*EffectiveEntity, error) {
	snapshot := make(map[catalog.EntityType]map[string]*EffectiveEntity, len(catalog.AllEntityTypes))
	for _, entityType := range catalog.AllEntityTypes {
		list, err := s.EffectiveList(ctx, view, entityType)
		if err != nil {
			return nil, err
		}
		byKey := make(map[string]*EffectiveEntity, len(list))
		for _, eff := range list {
			byKey[eff.EntityKey] = eff
		}
		snapshot[entityType] = byKey
	}
	return snapshot, nil
}

func (s *Service) notePatchError(eff *EffectiveEntity) {
	if eff.PatchError == "" {
		return
	}
	patchFailures.Inc()
	s.log.Warn("stored patch no longer applies",
		slog.String("entity_type", string(eff.EntityType)),
		slog.String("entity_key", eff.EntityKey),
		slog.String("patch_error", eff.PatchError),
	)
}
