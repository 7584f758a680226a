package graph

import (
	"context"

	"github.com/uptrace/bun"
)

// Store runs the recursive traversal queries. All walks are path-tracked: a
// step that would revisit a key on its own path is recorded with its cycle
// flag set and never expanded, so cyclic data terminates with partial results
// instead of looping.
type Store struct {
	db bun.IDB
}

// NewStore creates a new graph store.
func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// TraversalRow is one visited key of a neighborhood walk.
type TraversalRow struct {
	Key   string `bun:"key"`
	Depth int    `bun:"depth"`
	Cycle bool   `bun:"cycle"`
}

// WalkNeighborhood expands bidirectionally over parent edges from startKey up
// to maxDepth hops, visiting at most maxNodes keys. Each key is reported once
// at its shortest distance; the cycle flag is set when any path revisited it.
func (s *Store) WalkNeighborhood(ctx context.Context, versionID, startKey string, maxDepth, maxNodes int) ([]*TraversalRow, error) {
	var rows []*TraversalRow
	err := s.db.NewRaw(`
		WITH RECURSIVE walk (key, depth, path, cycle) AS (
			SELECT ?::text, 0, ARRAY[?::text], false

			UNION ALL

			SELECT n.key, w.depth + 1, w.path || n.key, n.key = ANY(w.path)
			FROM walk w
			JOIN LATERAL (
				SELECT pe.parent_key AS key
				FROM ont.parent_edges pe
				WHERE pe.version_id = ? AND pe.child_key = w.key

				UNION

				SELECT pe.child_key
				FROM ont.parent_edges pe
				WHERE pe.version_id = ? AND pe.parent_key = w.key
			) n ON true
			WHERE w.depth < ? AND NOT w.cycle
		)
		SELECT key, min(depth) AS depth, bool_or(cycle) AS cycle
		FROM walk
		GROUP BY key
		ORDER BY depth ASC, key ASC
		LIMIT ?
	`, startKey, startKey, versionID, versionID, maxDepth, maxNodes).Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ClosureRow is one category key of a closure result.
type ClosureRow struct {
	Key string `bun:"key"`
}

// ModuleClosure returns the module's direct member categories plus all their
// ancestors.
func (s *Store) ModuleClosure(ctx context.Context, versionID, moduleKey string) ([]string, error) {
	return s.closure(ctx, `
		SELECT mm.member_key, ARRAY[mm.member_key]
		FROM ont.module_members mm
		WHERE mm.version_id = ? AND mm.module_key = ? AND mm.member_type = 'category'
	`, versionID, moduleKey)
}

// BundleClosure returns the union of the closures of the bundle's modules.
func (s *Store) BundleClosure(ctx context.Context, versionID, bundleKey string) ([]string, error) {
	return s.closure(ctx, `
		SELECT mm.member_key, ARRAY[mm.member_key]
		FROM ont.module_members mm
		JOIN ont.bundle_modules bm
			ON bm.version_id = mm.version_id AND bm.module_key = mm.module_key
		WHERE mm.version_id = ? AND bm.bundle_key = ? AND mm.member_type = 'category'
	`, versionID, bundleKey)
}

// CategoryClosure returns a category plus all its ancestors.
func (s *Store) CategoryClosure(ctx context.Context, versionID, categoryKey string) ([]string, error) {
	return s.closure(ctx, `
		SELECT e.entity_key, ARRAY[e.entity_key]
		FROM ont.entities e
		WHERE e.version_id = ? AND e.entity_type = 'category' AND e.entity_key = ?
	`, versionID, categoryKey)
}

func (s *Store) closure(ctx context.Context, seedSQL string, seedArgs ...any) ([]string, error) {
	args := make([]any, 0, len(seedArgs)+1)
	args = append(args, seedArgs...)
	args = append(args, seedArgs[0]) // version id for the recursive member

	var rows []*ClosureRow
	err := s.db.NewRaw(`
		WITH RECURSIVE anc (key, path) AS (
			`+seedSQL+`

			UNION ALL

			SELECT pe.parent_key, a.path || pe.parent_key
			FROM anc a
			JOIN ont.parent_edges pe
				ON pe.version_id = ? AND pe.child_key = a.key
			WHERE NOT pe.parent_key = ANY(a.path)
		)
		SELECT DISTINCT key FROM anc ORDER BY key ASC
	`, args...).Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys, nil
}
