package versions

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles ontology version HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new versions handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/ontology/versions
func (h *Handler) List(c echo.Context) error {
	out, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponseList(out))
}

// GetCurrent handles GET /api/ontology/versions/current
func (h *Handler) GetCurrent(c echo.Context) error {
	v, err := h.svc.GetCurrent(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponse(v))
}

// GetByID handles GET /api/ontology/versions/:versionId
func (h *Handler) GetByID(c echo.Context) error {
	id := c.Param("versionId")
	if _, err := uuid.Parse(id); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid version id format")
	}

	v, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponse(v))
}

// Ingest handles POST /api/ontology/versions
func (h *Handler) Ingest(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	v, err := h.svc.Ingest(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ToResponse(v))
}
