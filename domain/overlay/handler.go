package overlay

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles effective-view HTTP requests. Every endpoint takes an
// optional ?draft_id= query parameter; without it the canonical view over the
// current version is served. Frontends never merge drafts themselves.
type Handler struct {
	svc *Service
}

// NewHandler creates a new overlay handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) viewFrom(c echo.Context) (*View, error) {
	draftID := c.QueryParam("draft_id")
	if draftID != "" {
		if _, err := uuid.Parse(draftID); err != nil {
			return nil, apperror.ErrBadRequest.WithMessage("invalid draft_id format")
		}
	}
	return h.svc.ResolveView(c.Request().Context(), draftID)
}

func entityTypeParam(c echo.Context) (catalog.EntityType, error) {
	t, err := catalog.ParseEntityType(c.Param("type"))
	if err != nil {
		return "", apperror.ErrBadRequest.WithMessage("unknown entity type")
	}
	return t, nil
}

// List handles GET /api/ontology/effective/entities/:type
func (h *Handler) List(c echo.Context) error {
	view, err := h.viewFrom(c)
	if err != nil {
		return err
	}
	entityType, err := entityTypeParam(c)
	if err != nil {
		return err
	}

	out, err := h.svc.EffectiveList(c.Request().Context(), view, entityType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/ontology/effective/entities/:type/:key
func (h *Handler) Get(c echo.Context) error {
	view, err := h.viewFrom(c)
	if err != nil {
		return err
	}
	entityType, err := entityTypeParam(c)
	if err != nil {
		return err
	}
	key := c.Param("key")
	if key == "" {
		return apperror.ErrBadRequest.WithMessage("entity key required")
	}

	eff, err := h.svc.Effective(c.Request().Context(), view, entityType, key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, eff)
}

// Parents handles GET /api/ontology/effective/categories/:key/parents
func (h *Handler) Parents(c echo.Context) error {
	view, err := h.viewFrom(c)
	if err != nil {
		return err
	}
	key := c.Param("key")
	if key == "" {
		return apperror.ErrBadRequest.WithMessage("category key required")
	}

	parents, err := h.svc.EffectiveParents(c.Request().Context(), view, key)
	if err != nil {
		return err
	}
	if parents == nil {
		parents = []string{}
	}
	return c.JSON(http.StatusOK, parents)
}

// Properties handles GET /api/ontology/effective/categories/:key/properties
func (h *Handler) Properties(c echo.Context) error {
	view, err := h.viewFrom(c)
	if err != nil {
		return err
	}
	key := c.Param("key")
	if key == "" {
		return apperror.ErrBadRequest.WithMessage("category key required")
	}

	entries, err := h.svc.EffectiveProperties(c.Request().Context(), view, key)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []catalog.EffectivePropertyEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
