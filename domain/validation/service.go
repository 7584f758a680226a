package validation

import (
	"context"
	"log/slog"
	"time"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/drafts"
	"github.com/ontocraft/ontocraft/domain/overlay"
	"github.com/ontocraft/ontocraft/pkg/apperror"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

// Service runs validation over a draft's effective view.
type Service struct {
	catalog *catalog.Store
	drafts  *drafts.Service
	overlay *overlay.Service
	log     *slog.Logger
}

// NewService creates a new validation service.
func NewService(catalogStore *catalog.Store, draftSvc *drafts.Service, overlaySvc *overlay.Service, log *slog.Logger) *Service {
	return &Service{
		catalog: catalogStore,
		drafts:  draftSvc,
		overlay: overlaySvc,
		log:     log.With(logger.Scope("validation")),
	}
}

// Result is one validation run.
type Result struct {
	DraftID     string             `json:"draft_id"`
	Messages    []Message          `json:"messages"`
	Suggestions []SemverSuggestion `json:"semver_suggestions"`
	Submittable bool               `json:"submittable"`
}

// Validate runs all checks on a draft's effective view. The run is a pure
// read over canonical plus the change log and can be repeated freely; as a
// side effect a clean run moves an active draft to validated.
func (s *Service) Validate(ctx context.Context, draftID string) (*Result, error) {
	start := time.Now()

	view, err := s.overlay.ResolveView(ctx, draftID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, view)
	if err != nil {
		runsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	result.DraftID = draftID

	if result.Submittable {
		runsTotal.WithLabelValues("clean").Inc()
		if err := s.drafts.MarkValidated(ctx, draftID); err != nil {
			return nil, err
		}
	} else {
		runsTotal.WithLabelValues("errors").Inc()
	}
	for _, m := range result.Messages {
		messagesEmitted.WithLabelValues(string(m.Severity)).Inc()
	}
	runDuration.Observe(time.Since(start).Seconds())

	s.log.Info("validation run finished",
		slog.String("draft_id", draftID),
		slog.Int("messages", len(result.Messages)),
		slog.Bool("submittable", result.Submittable),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, view *overlay.View) (*Result, error) {
	effective, err := s.overlay.EffectiveSnapshot(ctx, view)
	if err != nil {
		return nil, err
	}
	canonical, err := s.catalog.ListAll(ctx, view.VersionID)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	snap := BuildSnapshot(effective, canonical)

	messages := append([]Message{}, snap.Problems...)
	messages = append(messages, CheckReferences(snap)...)
	messages = append(messages, CheckCycles(snap)...)
	breaking := CheckBreaking(snap)
	messages = append(messages, breaking...)

	return &Result{
		Messages:    messages,
		Suggestions: SuggestSemver(snap, breaking),
		Submittable: !HasErrors(messages),
	}, nil
}

// Run validates a view without touching draft state. Export uses this to
// attach suggestions.
func (s *Service) Run(ctx context.Context, view *overlay.View) (*Result, error) {
	return s.run(ctx, view)
}
