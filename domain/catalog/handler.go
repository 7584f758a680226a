package catalog

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles canonical catalog HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new catalog handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func versionIDParam(c echo.Context) (string, error) {
	id := c.Param("versionId")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperror.ErrBadRequest.WithMessage("invalid version id format")
	}
	return id, nil
}

func entityTypeParam(c echo.Context) (EntityType, error) {
	t, err := ParseEntityType(c.Param("type"))
	if err != nil {
		return "", apperror.ErrBadRequest.WithMessage("unknown entity type")
	}
	return t, nil
}

// ListByType handles GET /api/ontology/versions/:versionId/entities/:type
func (h *Handler) ListByType(c echo.Context) error {
	versionID, err := versionIDParam(c)
	if err != nil {
		return err
	}
	entityType, err := entityTypeParam(c)
	if err != nil {
		return err
	}

	entities, err := h.svc.ListByType(c.Request().Context(), versionID, entityType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ToResponseList(entities))
}

// GetEntity handles GET /api/ontology/versions/:versionId/entities/:type/:key
func (h *Handler) GetEntity(c echo.Context) error {
	versionID, err := versionIDParam(c)
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

	entity, err := h.svc.GetEntity(c.Request().Context(), versionID, entityType, key)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ToResponse(entity))
}

// EffectiveProperties handles
// GET /api/ontology/versions/:versionId/categories/:key/effective-properties
func (h *Handler) EffectiveProperties(c echo.Context) error {
	versionID, err := versionIDParam(c)
	if err != nil {
		return err
	}
	key := c.Param("key")
	if key == "" {
		return apperror.ErrBadRequest.WithMessage("category key required")
	}

	rows, err := h.svc.EffectiveProperties(c.Request().Context(), versionID, key)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ToEffectiveResponseList(rows))
}
