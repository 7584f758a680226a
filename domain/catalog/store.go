package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/ontocraft/ontocraft/internal/database"
)

// Store handles database operations for canonical entities and relationship tables.
type Store struct {
	db bun.IDB
}

// NewStore creates a new catalog store.
func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// GetEntity returns a single canonical entity, or nil when absent.
func (s *Store) GetEntity(ctx context.Context, versionID string, entityType EntityType, entityKey string) (*Entity, error) {
	entity := new(Entity)
	err := s.db.NewSelect().
		Model(entity).
		Where("version_id = ?", versionID).
		Where("entity_type = ?", entityType).
		Where("entity_key = ?", entityKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entity, nil
}

// GetEntities returns canonical entities of one type for a batch of keys.
func (s *Store) GetEntities(ctx context.Context, versionID string, entityType EntityType, keys []string) ([]*Entity, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var entities []*Entity
	err := s.db.NewSelect().
		Model(&entities).
		Where("version_id = ?", versionID).
		Where("entity_type = ?", entityType).
		Where("entity_key IN (?)", bun.In(keys)).
		Order("entity_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// ListByType returns all canonical entities of one type, ordered by key.
func (s *Store) ListByType(ctx context.Context, versionID string, entityType EntityType) ([]*Entity, error) {
	var entities []*Entity
	err := s.db.NewSelect().
		Model(&entities).
		Where("version_id = ?", versionID).
		Where("entity_type = ?", entityType).
		Order("entity_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// ListAll returns every canonical entity of a version ordered by type then key.
func (s *Store) ListAll(ctx context.Context, versionID string) ([]*Entity, error) {
	var entities []*Entity
	err := s.db.NewSelect().
		Model(&entities).
		Where("version_id = ?", versionID).
		Order("entity_type ASC", "entity_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// InsertEntities bulk-inserts canonical entities, typically inside an ingest
// transaction.
func (s *Store) InsertEntities(ctx context.Context, db bun.IDB, entities []*Entity) error {
	if len(entities) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

// ParentEdges returns all parent edges of a version.
func (s *Store) ParentEdges(ctx context.Context, versionID string) ([]*ParentEdge, error) {
	var edges []*ParentEdge
	err := s.db.NewSelect().
		Model(&edges).
		Where("version_id = ?", versionID).
		Order("child_key ASC", "parent_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// ParentsOf returns the parent edges for a batch of child keys.
func (s *Store) ParentsOf(ctx context.Context, versionID string, childKeys []string) ([]*ParentEdge, error) {
	if len(childKeys) == 0 {
		return nil, nil
	}
	var edges []*ParentEdge
	err := s.db.NewSelect().
		Model(&edges).
		Where("version_id = ?", versionID).
		Where("child_key IN (?)", bun.In(childKeys)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// ChildrenOf returns the parent edges pointing at a batch of parent keys.
func (s *Store) ChildrenOf(ctx context.Context, versionID string, parentKeys []string) ([]*ParentEdge, error) {
	if len(parentKeys) == 0 {
		return nil, nil
	}
	var edges []*ParentEdge
	err := s.db.NewSelect().
		Model(&edges).
		Where("version_id = ?", versionID).
		Where("parent_key IN (?)", bun.In(parentKeys)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// PropertyLinksFor returns direct property links for a batch of category keys.
func (s *Store) PropertyLinksFor(ctx context.Context, versionID string, categoryKeys []string) ([]*PropertyLink, error) {
	if len(categoryKeys) == 0 {
		return nil, nil
	}
	var links []*PropertyLink
	err := s.db.NewSelect().
		Model(&links).
		Where("version_id = ?", versionID).
		Where("category_key IN (?)", bun.In(categoryKeys)).
		Order("category_key ASC", "property_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ModulesForEntities returns module memberships for a batch of entity keys in
// a single query. Used to decorate traversal results.
func (s *Store) ModulesForEntities(ctx context.Context, versionID string, keys []string) ([]*ModuleMember, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var members []*ModuleMember
	err := s.db.NewSelect().
		Model(&members).
		Where("version_id = ?", versionID).
		Where("member_key IN (?)", bun.In(keys)).
		Order("member_key ASC", "module_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// MembersOfModule returns the direct members of one module.
func (s *Store) MembersOfModule(ctx context.Context, versionID, moduleKey string) ([]*ModuleMember, error) {
	var members []*ModuleMember
	err := s.db.NewSelect().
		Model(&members).
		Where("version_id = ?", versionID).
		Where("module_key = ?", moduleKey).
		Order("member_type ASC", "member_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ModulesOfBundle returns the module keys of one bundle.
func (s *Store) ModulesOfBundle(ctx context.Context, versionID, bundleKey string) ([]*BundleModule, error) {
	var rows []*BundleModule
	err := s.db.NewSelect().
		Model(&rows).
		Where("version_id = ?", versionID).
		Where("bundle_key = ?", bundleKey).
		Order("module_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertEdges bulk-inserts the derived relationship rows for a version inside
// an ingest transaction. Nil slices are skipped.
func (s *Store) InsertEdges(ctx context.Context, db bun.IDB, parents []*ParentEdge, links []*PropertyLink, members []*ModuleMember, bundles []*BundleModule) error {
	if len(parents) > 0 {
		if _, err := db.NewInsert().Model(&parents).Exec(ctx); err != nil {
			return err
		}
	}
	if len(links) > 0 {
		if _, err := db.NewInsert().Model(&links).Exec(ctx); err != nil {
			return err
		}
	}
	if len(members) > 0 {
		if _, err := db.NewInsert().Model(&members).Exec(ctx); err != nil {
			return err
		}
	}
	if len(bundles) > 0 {
		if _, err := db.NewInsert().Model(&bundles).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EffectivePropertiesFor reads materialized inherited properties for a batch
// of category keys.
func (s *Store) EffectivePropertiesFor(ctx context.Context, versionID string, categoryKeys []string) ([]*EffectiveProperty, error) {
	if len(categoryKeys) == 0 {
		return nil, nil
	}
	var rows []*EffectiveProperty
	err := s.db.NewSelect().
		Model(&rows).
		Where("version_id = ?", versionID).
		Where("category_key IN (?)", bun.In(categoryKeys)).
		Order("category_key ASC", "property_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RebuildEffectiveProperties recomputes ont.category_properties_effective for
// one version from scratch. The walk is a path-tracked recursive CTE: revisits
// are pruned so cyclic parent data cannot loop, and the nearest contributor of
// each property wins (ties broken by source key). An advisory transaction lock
// keyed on the version serializes concurrent rebuilds.
func (s *Store) RebuildEffectiveProperties(ctx context.Context, versionID string) error {
	tx, err := database.BeginSafeTx(ctx, s.db)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.NewRaw(
		`SELECT pg_advisory_xact_lock(hashtext(?))`,
		"ont:effective_rebuild:"+versionID,
	).Exec(ctx); err != nil {
		return err
	}

	if _, err := tx.NewDelete().
		Model((*EffectiveProperty)(nil)).
		Where("version_id = ?", versionID).
		Exec(ctx); err != nil {
		return err
	}

	_, err = tx.NewRaw(`
		WITH RECURSIVE ancestors AS (
			SELECT
				c.entity_key AS category_key,
				c.entity_key AS ancestor_key,
				0 AS depth,
				ARRAY[c.entity_key] AS path
			FROM ont.entities c
			WHERE c.version_id = ? AND c.entity_type = 'category'

			UNION ALL

			SELECT
				a.category_key,
				pe.parent_key,
				a.depth + 1,
				a.path || pe.parent_key
			FROM ancestors a
			JOIN ont.parent_edges pe
				ON pe.version_id = ? AND pe.child_key = a.ancestor_key
			WHERE NOT pe.parent_key = ANY(a.path)
		),
		ranked AS (
			SELECT DISTINCT ON (a.category_key, pl.property_key)
				a.category_key,
				pl.property_key,
				a.ancestor_key AS source_category_key,
				pl.required,
				a.depth
			FROM ancestors a
			JOIN ont.property_links pl
				ON pl.version_id = ? AND pl.category_key = a.ancestor_key
			ORDER BY a.category_key, pl.property_key, a.depth ASC, a.ancestor_key ASC
		)
		INSERT INTO ont.category_properties_effective
			(version_id, category_key, property_key, source_category_key, required, depth)
		SELECT ?, category_key, property_key, source_category_key, required, depth
		FROM ranked
	`, versionID, versionID, versionID, versionID).Exec(ctx)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CrossVersionEdgeCount counts relationship rows whose endpoints do not both
// exist in the edge's own version. Any non-zero result is a data-integrity
// violation.
func (s *Store) CrossVersionEdgeCount(ctx context.Context, versionID string) (int, error) {
	var count int
	err := s.db.NewRaw(`
		SELECT
			(SELECT count(*) FROM ont.parent_edges pe
			 WHERE pe.version_id = ?
			   AND (NOT EXISTS (
					SELECT 1 FROM ont.entities e
					WHERE e.version_id = pe.version_id
					  AND e.entity_type = 'category' AND e.entity_key = pe.child_key)
				 OR NOT EXISTS (
					SELECT 1 FROM ont.entities e
					WHERE e.version_id = pe.version_id
					  AND e.entity_type = 'category' AND e.entity_key = pe.parent_key)))
			+
			(SELECT count(*) FROM ont.property_links pl
			 WHERE pl.version_id = ?
			   AND NOT EXISTS (
					SELECT 1 FROM ont.entities e
					WHERE e.version_id = pl.version_id
					  AND e.entity_type = 'property' AND e.entity_key = pl.property_key))
	`, versionID, versionID).Scan(ctx, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
