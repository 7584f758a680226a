package graph

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles traversal HTTP requests.
type Handler struct {
	svc     *Service
	overlay *overlay.Service
}

// NewHandler creates a new graph handler.
func NewHandler(svc *Service, overlaySvc *overlay.Service) *Handler {
	return &Handler{svc: svc, overlay: overlaySvc}
}

func (h *Handler) viewFrom(c echo.Context) (*overlay.View, error) {
	draftID := c.QueryParam("draft_id")
	if draftID != "" {
		if _, err := uuid.Parse(draftID); err != nil {
			return nil, apperror.ErrBadRequest.WithMessage("invalid draft_id format")
		}
	}
	return h.overlay.ResolveView(c.Request().Context(), draftID)
}

func entityTypeParam(c echo.Context) (catalog.EntityType, error) {
	t, err := catalog.ParseEntityType(c.Param("type"))
	if err != nil {
		return "", apperror.ErrBadRequest.WithMessage("unknown entity type")
	}
	return t, nil
}

// Neighborhood handles GET /api/ontology/graph/neighborhood/:type/:key
func (h *Handler) Neighborhood(c echo.Context) error {
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

	depth := 0
	if raw := c.QueryParam("depth"); raw != "" {
		depth, err = strconv.Atoi(raw)
		if err != nil || depth < 0 {
			return apperror.ErrBadRequest.WithMessage("depth must be a non-negative integer")
		}
	}

	result, err := h.svc.Neighborhood(c.Request().Context(), view, entityType, key, depth)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ModuleGraph handles GET /api/ontology/graph/modules/:key
func (h *Handler) ModuleGraph(c echo.Context) error {
	view, err := h.viewFrom(c)
	if err != nil {
		return err
	}
	key := c.Param("key")
	if key == "" {
		return apperror.ErrBadRequest.WithMessage("module key required")
	}

	result, err := h.svc.ModuleGraphFor(c.Request().Context(), view, key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Closure handles GET /api/ontology/graph/closure/:type/:key
func (h *Handler) Closure(c echo.Context) error {
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

	result, err := h.svc.ClosureFor(c.Request().Context(), view, entityType, key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
