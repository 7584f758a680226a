package health

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// StatsHandler serves operational counts over the ontology store.
type StatsHandler struct {
	db *bun.DB
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(db *bun.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// DraftStats breaks drafts down by lifecycle state.
type DraftStats struct {
	Active    int64 `json:"active"`
	Validated int64 `json:"validated"`
	Submitted int64 `json:"submitted"`
	Merged    int64 `json:"merged"`
	Abandoned int64 `json:"abandoned"`
	Stale     int64 `json:"stale"`
}

// VersionStats breaks ontology versions down by ingest state.
type VersionStats struct {
	Pending  int64 `json:"pending"`
	Ingested int64 `json:"ingested"`
	Failed   int64 `json:"failed"`
}

// StatsResponse is the operational stats document.
type StatsResponse struct {
	Drafts          DraftStats   `json:"drafts"`
	Versions        VersionStats `json:"versions"`
	CurrentEntities int64        `json:"current_entities"`
	Timestamp       string       `json:"timestamp"`
}

// Stats handles GET /api/ontology/stats
func (h *StatsHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	var d DraftStats
	if err := h.db.NewRaw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'validated') AS validated,
			COUNT(*) FILTER (WHERE status = 'submitted') AS submitted,
			COUNT(*) FILTER (WHERE status = 'merged') AS merged,
			COUNT(*) FILTER (WHERE status = 'abandoned') AS abandoned,
			COUNT(*) FILTER (WHERE stale) AS stale
		FROM ont.drafts
	`).Scan(ctx, &d.Active, &d.Validated, &d.Submitted, &d.Merged, &d.Abandoned, &d.Stale); err != nil {
		return err
	}

	var v VersionStats
	if err := h.db.NewRaw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'ingested') AS ingested,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed
		FROM ont.ontology_versions
	`).Scan(ctx, &v.Pending, &v.Ingested, &v.Failed); err != nil {
		return err
	}

	var current int64
	if err := h.db.NewRaw(`
		SELECT COUNT(*) FROM ont.entities e
		JOIN ont.ontology_versions ov ON ov.id = e.version_id
		WHERE ov.is_current
	`).Scan(ctx, &current); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatsResponse{
		Drafts:          d,
		Versions:        v,
		CurrentEntities: current,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	})
}
