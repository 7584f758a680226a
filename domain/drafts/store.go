package drafts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/ontocraft/ontocraft/domain/catalog"
)

// Store handles database operations for drafts and their change log.
type Store struct {
	db bun.IDB
}

// NewStore creates a new drafts store.
func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// GetByID returns a draft by ID, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Draft, error) {
	d := new(Draft)
	err := s.db.NewSelect().
		Model(d).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// List returns all drafts, newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status *DraftStatus) ([]*Draft, error) {
	var out []*Draft
	q := s.db.NewSelect().Model(&out).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRebasable returns active and validated drafts whose base version is not
// the given one. The sweeper uses this to find drafts left behind by a new
// canonical load.
func (s *Store) ListRebasable(ctx context.Context, currentVersionID string) ([]*Draft, error) {
	var out []*Draft
	err := s.db.NewSelect().
		Model(&out).
		Where("status IN (?)", bun.In([]DraftStatus{StatusActive, StatusValidated})).
		Where("base_version_id != ?", currentVersionID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new draft.
func (s *Store) Create(ctx context.Context, d *Draft) (*Draft, error) {
	_, err := s.db.NewInsert().
		Model(d).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateStatus sets a draft's status.
func (s *Store) UpdateStatus(ctx context.Context, id string, status DraftStatus) (*Draft, error) {
	d := new(Draft)
	_, err := s.db.NewUpdate().
		Model(d).
		Set("status = ?", status).
		Set("updated_at = now()").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if d.ID == "" {
		return nil, nil
	}
	return d, nil
}

// AdvanceBase moves a draft onto a new base version after a rebase, recording
// where it came from and whether conflicts left it stale.
func (s *Store) AdvanceBase(ctx context.Context, db bun.IDB, draftID, newVersionID, oldVersionID string, stale bool, at time.Time) error {
	_, err := db.NewUpdate().
		Model((*Draft)(nil)).
		Set("base_version_id = ?", newVersionID).
		Set("rebased_from_version_id = ?", oldVersionID).
		Set("rebased_at = ?", at).
		Set("stale = ?", stale).
		Set("updated_at = now()").
		Where("id = ?", draftID).
		Exec(ctx)
	return err
}

// ClearStale resets the stale flag once a draft's conflicts are resolved.
func (s *Store) ClearStale(ctx context.Context, draftID string) error {
	_, err := s.db.NewUpdate().
		Model((*Draft)(nil)).
		Set("stale = false").
		Set("updated_at = now()").
		Where("id = ?", draftID).
		Exec(ctx)
	return err
}

// GetChange returns the live change for one key in a draft, or nil.
func (s *Store) GetChange(ctx context.Context, draftID string, entityType catalog.EntityType, entityKey string) (*DraftChange, error) {
	c := new(DraftChange)
	err := s.db.NewSelect().
		Model(c).
		Where("draft_id = ?", draftID).
		Where("entity_type = ?", entityType).
		Where("entity_key = ?", entityKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListChanges returns all changes of a draft in proposal order.
func (s *Store) ListChanges(ctx context.Context, draftID string) ([]*DraftChange, error) {
	var out []*DraftChange
	err := s.db.NewSelect().
		Model(&out).
		Where("draft_id = ?", draftID).
		Order("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListChangesByType returns a draft's changes for one entity type.
func (s *Store) ListChangesByType(ctx context.Context, draftID string, entityType catalog.EntityType) ([]*DraftChange, error) {
	var out []*DraftChange
	err := s.db.NewSelect().
		Model(&out).
		Where("draft_id = ?", draftID).
		Where("entity_type = ?", entityType).
		Order("entity_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertChange inserts or replaces the live change for a key. The unique
// constraint on (draft_id, entity_type, entity_key) makes concurrent edits of
// the same key serialize to last-writer-wins.
func (s *Store) UpsertChange(ctx context.Context, db bun.IDB, c *DraftChange) (*DraftChange, error) {
	_, err := db.NewInsert().
		Model(c).
		On("CONFLICT (draft_id, entity_type, entity_key) DO UPDATE").
		Set("op = EXCLUDED.op").
		Set("body = EXCLUDED.body").
		Set("patch = EXCLUDED.patch").
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetStatus sets a draft's status inside a caller-provided transaction.
func (s *Store) SetStatus(ctx context.Context, db bun.IDB, id string, status DraftStatus) error {
	_, err := db.NewUpdate().
		Model((*Draft)(nil)).
		Set("status = ?", status).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteChange removes the live change for one key, returning whether a row
// was removed.
func (s *Store) DeleteChange(ctx context.Context, db bun.IDB, draftID string, entityType catalog.EntityType, entityKey string) (bool, error) {
	res, err := db.NewDelete().
		Model((*DraftChange)(nil)).
		Where("draft_id = ?", draftID).
		Where("entity_type = ?", entityType).
		Where("entity_key = ?", entityKey).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
