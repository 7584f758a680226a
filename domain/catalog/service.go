package catalog

import (
	"context"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Service handles business logic for canonical reads and the materialized
// inheritance view.
type Service struct {
	store *Store
}

// NewService creates a new catalog service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// GetEntity returns one canonical entity.
func (s *Service) GetEntity(ctx context.Context, versionID string, entityType EntityType, entityKey string) (*Entity, error) {
	entity, err := s.store.GetEntity(ctx, versionID, entityType, entityKey)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if entity == nil {
		return nil, apperror.ErrNotFound.WithMessage("entity not found")
	}
	return entity, nil
}

// ListByType returns all canonical entities of one type, ordered by key.
func (s *Service) ListByType(ctx context.Context, versionID string, entityType EntityType) ([]*Entity, error) {
	entities, err := s.store.ListByType(ctx, versionID, entityType)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return entities, nil
}

// EffectiveProperties reads the materialized inherited properties of one
// category.
func (s *Service) EffectiveProperties(ctx context.Context, versionID, categoryKey string) ([]*EffectiveProperty, error) {
	entity, err := s.store.GetEntity(ctx, versionID, TypeCategory, categoryKey)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if entity == nil {
		return nil, apperror.ErrNotFound.WithMessage("category not found")
	}

	rows, err := s.store.EffectivePropertiesFor(ctx, versionID, []string{categoryKey})
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rows, nil
}

// RebuildEffectiveProperties recomputes the materialized inheritance view for
// one version. Called by ingest after canonical load.
func (s *Service) RebuildEffectiveProperties(ctx context.Context, versionID string) error {
	if err := s.store.RebuildEffectiveProperties(ctx, versionID); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}
