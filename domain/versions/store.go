package versions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/uptrace/bun"
)

// Store handles database operations for ontology versions.
type Store struct {
	db bun.IDB
}

// NewStore creates a new versions store.
func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// GetByID returns a version by ID, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*OntologyVersion, error) {
	v := new(OntologyVersion)
	err := s.db.NewSelect().
		Model(v).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// GetCurrent returns the version marked current, or nil when none is.
func (s *Store) GetCurrent(ctx context.Context) (*OntologyVersion, error) {
	v := new(OntologyVersion)
	err := s.db.NewSelect().
		Model(v).
		Where("is_current").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// List returns all versions, newest first.
func (s *Store) List(ctx context.Context) ([]*OntologyVersion, error) {
	var out []*OntologyVersion
	err := s.db.NewSelect().
		Model(&out).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new pending version.
func (s *Store) Create(ctx context.Context, db bun.IDB, v *OntologyVersion) (*OntologyVersion, error) {
	_, err := db.NewInsert().
		Model(v).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// MarkCurrent atomically flips is_current to the given version. The advisory
// lock serializes concurrent flips so the partial unique index never trips.
func (s *Store) MarkCurrent(ctx context.Context, db bun.IDB, id string) error {
	if _, err := db.NewRaw(
		`SELECT pg_advisory_xact_lock(hashtext(?))`, "ont:current_version",
	).Exec(ctx); err != nil {
		return err
	}

	if _, err := db.NewUpdate().
		Model((*OntologyVersion)(nil)).
		Set("is_current = false").
		Where("is_current").
		Exec(ctx); err != nil {
		return err
	}

	res, err := db.NewUpdate().
		Model((*OntologyVersion)(nil)).
		Set("is_current = true").
		Set("status = ?", StatusIngested).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkFailed records ingest errors against a version.
func (s *Store) MarkFailed(ctx context.Context, id string, ingestErrs []string) error {
	payload, err := json.Marshal(ingestErrs)
	if err != nil {
		return err
	}
	_, err = s.db.NewUpdate().
		Model((*OntologyVersion)(nil)).
		Set("status = ?", StatusFailed).
		Set("ingest_errors = ?", string(payload)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
