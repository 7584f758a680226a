package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/ontocraft/ontocraft/domain/overlay"
	"github.com/ontocraft/ontocraft/domain/validation"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

// Service materializes full effective trees for the repository writer.
type Service struct {
	overlay    *overlay.Service
	validation *validation.Service
	log        *slog.Logger
}

// NewService creates a new export service.
func NewService(overlaySvc *overlay.Service, validationSvc *validation.Service, log *slog.Logger) *Service {
	return &Service{
		overlay:    overlaySvc,
		validation: validationSvc,
		log:        log.With(logger.Scope("export")),
	}
}

// MaterializeTree serializes the complete effective ontology under a draft:
// every entity's body with its change status, deletions flagged rather than
// omitted, and the semver suggestions for the touched modules and bundles.
func (s *Service) MaterializeTree(ctx context.Context, draftID string) (*Tree, error) {
	view, err := s.overlay.ResolveView(ctx, draftID)
	if err != nil {
		return nil, err
	}

	effective, err := s.overlay.EffectiveSnapshot(ctx, view)
	if err != nil {
		return nil, err
	}
	run, err := s.validation.Run(ctx, view)
	if err != nil {
		return nil, err
	}

	tree := &Tree{
		DraftID:       draftID,
		BaseVersionID: view.VersionID,
		GeneratedAt:   time.Now().UTC(),
		Entities:      AssembleTree(effective),
		Suggestions:   run.Suggestions,
	}
	if tree.Suggestions == nil {
		tree.Suggestions = []validation.SemverSuggestion{}
	}

	s.log.Info("tree materialized",
		slog.String("draft_id", draftID),
		slog.Int("entities", len(tree.Entities)),
		slog.Int("suggestions", len(tree.Suggestions)),
	)
	return tree, nil
}
