package graph

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
	"github.com/ontocraft/ontocraft/domain/overlay"
	"github.com/ontocraft/ontocraft/internal/config"
	"github.com/ontocraft/ontocraft/pkg/apperror"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

// Service handles traversal queries.
type Service struct {
	store   *Store
	catalog *catalog.Store
	drafts  *drafts.Store
	overlay *overlay.Service
	cfg     *config.Config
	log     *slog.Logger
}

// NewService creates a new graph service.
func NewService(store *Store, catalogStore *catalog.Store, draftStore *drafts.Store, overlaySvc *overlay.Service, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalogStore,
		drafts:  draftStore,
		overlay: overlaySvc,
		cfg:     cfg,
		log:     log.With(logger.Scope("graph")),
	}
}

// ClampDepth applies the default and the configured ceiling to a caller depth.
func (s *Service) ClampDepth(depth int) int {
	if depth <= 0 {
		return s.cfg.Graph.DefaultDepth
	}
	if depth > s.cfg.Graph.MaxDepth {
		return s.cfg.Graph.MaxDepth
	}
	return depth
}

// Neighborhood expands bidirectionally over inheritance edges around one
// entity. The walk itself runs over canonical edges; under a draft the nodes
// are decorated with their overlay change status, and a draft-created start
// key yields a single-node result.
func (s *Service) Neighborhood(ctx context.Context, view *overlay.View, entityType catalog.EntityType, entityKey string, depth int) (*Neighborhood, error) {
	depth = s.ClampDepth(depth)
	maxNodes := s.cfg.Graph.MaxNodes

	// 404 when the entity exists neither canonically nor in the draft.
	if _, err := s.overlay.Effective(ctx, view, entityType, entityKey); err != nil {
		return nil, err
	}

	rows, err := s.store.WalkNeighborhood(ctx, view.VersionID, entityKey, depth, maxNodes)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}

	edges, err := s.catalog.ParentsOf(ctx, view.VersionID, keys)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	members, err := s.catalog.ModulesForEntities(ctx, view.VersionID, keys)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	entities, err := s.effectiveByKey(ctx, view, entityType, entityKey, keys)
	if err != nil {
		return nil, err
	}

	result := AssembleNeighborhood(rows, edges, members, entities, view.Draft != nil, maxNodes)
	if result.HasCycles {
		s.log.Warn("traversal hit a cycle",
			slog.String("entity_key", entityKey),
			slog.String("version_id", view.VersionID),
		)
	}
	return result, nil
}

// effectiveByKey resolves effective entities for the visited keys. Traversal
// keys are categories except possibly the start entity.
func (s *Service) effectiveByKey(ctx context.Context, view *overlay.View, startType catalog.EntityType, startKey string, keys []string) (map[string]*overlay.EffectiveEntity, error) {
	canonical, err := s.catalog.GetEntities(ctx, view.VersionID, catalog.TypeCategory, keys)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	byKey := make(map[string]*catalog.Entity, len(canonical))
	for _, e := range canonical {
		byKey[e.EntityKey] = e
	}

	changeByKey := map[string]*drafts.DraftChange{}
	if view.Draft != nil {
		changes, err := s.drafts.ListChangesByType(ctx, view.Draft.ID, catalog.TypeCategory)
		if err != nil {
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
		for _, c := range changes {
			changeByKey[c.EntityKey] = c
		}
	}

	out := make(map[string]*overlay.EffectiveEntity, len(keys))
	for _, key := range keys {
		if eff := overlay.Overlay(byKey[key], changeByKey[key]); eff != nil {
			out[key] = eff
		}
	}

	// The start entity may not be a category; resolve it on its own type.
	if startType != catalog.TypeCategory {
		if eff, err := s.overlay.Effective(ctx, view, startType, startKey); err == nil {
			out[startKey] = eff
		}
	}
	return out, nil
}

// ModuleGraphFor returns the direct members of a module and the inheritance
// edges among them, all read through the view. Membership in other modules is
// annotated on each node, never filtered out.
func (s *Service) ModuleGraphFor(ctx context.Context, view *overlay.View, moduleKey string) (*ModuleGraph, error) {
	eff, err := s.overlay.Effective(ctx, view, catalog.TypeModule, moduleKey)
	if err != nil {
		return nil, err
	}
	body, err := catalog.DecodeModuleBody(eff.Body)
	if err != nil {
		return nil, apperror.ErrBadRequest.WithMessage(err.Error())
	}

	result := &ModuleGraph{ModuleKey: moduleKey, Nodes: []*Node{}, Edges: []*Edge{}}

	var memberKeys []string
	var categoryKeys []string
	parentsByKey := map[string][]string{}

	for _, member := range body.Members {
		memberType, err := catalog.ParseEntityType(member.Type)
		if err != nil {
			continue
		}
		memberEff, err := s.overlay.Effective(ctx, view, memberType, member.Key)
		if err != nil {
			// Unresolved members are validation's business, not the graph's.
			continue
		}

		node := &Node{
			EntityType: memberType,
			EntityKey:  member.Key,
			Label:      labelOf(memberEff.Body),
		}
		if view.Draft != nil {
			node.ChangeStatus = memberEff.Status
		}
		result.Nodes = append(result.Nodes, node)
		memberKeys = append(memberKeys, member.Key)

		if memberType == catalog.TypeCategory && memberEff.Status != overlay.StatusDeleted {
			categoryKeys = append(categoryKeys, member.Key)
			if catBody, err := catalog.DecodeCategoryBody(memberEff.Body); err == nil {
				parentsByKey[member.Key] = catBody.Parents
			}
		}
	}

	sort.Slice(result.Nodes, func(i, j int) bool {
		if result.Nodes[i].EntityType != result.Nodes[j].EntityType {
			return result.Nodes[i].EntityType < result.Nodes[j].EntityType
		}
		return result.Nodes[i].EntityKey < result.Nodes[j].EntityKey
	})

	result.Edges = ParentEdgesAmong(categoryKeys, func(key string) []string {
		return parentsByKey[key]
	})

	members, err := s.catalog.ModulesForEntities(ctx, view.VersionID, memberKeys)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	modulesByKey := map[string][]string{}
	for _, m := range members {
		modulesByKey[m.MemberKey] = append(modulesByKey[m.MemberKey], m.ModuleKey)
	}
	for _, node := range result.Nodes {
		node.Modules = modulesByKey[node.EntityKey]
	}

	return result, nil
}

// ClosureFor returns the transitive category set of a category, module or
// bundle. Closures read canonical rows only: a draft-created module or bundle
// exists, but its closure stays empty until the draft is merged.
func (s *Service) ClosureFor(ctx context.Context, view *overlay.View, entityType catalog.EntityType, entityKey string) (*Closure, error) {
	if _, err := s.overlay.Effective(ctx, view, entityType, entityKey); err != nil {
		return nil, err
	}

	var (
		keys []string
		err  error
	)
	switch entityType {
	case catalog.TypeCategory:
		keys, err = s.store.CategoryClosure(ctx, view.VersionID, entityKey)
	case catalog.TypeModule:
		keys, err = s.store.ModuleClosure(ctx, view.VersionID, entityKey)
	case catalog.TypeBundle:
		keys, err = s.store.BundleClosure(ctx, view.VersionID, entityKey)
	default:
		return nil, apperror.ErrBadRequest.WithMessage("closure is defined for categories, modules and bundles")
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	if keys == nil {
		keys = []string{}
	}
	return &Closure{EntityType: entityType, EntityKey: entityKey, Categories: keys}, nil
}
