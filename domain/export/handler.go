package export

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles export HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new export handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MaterializeTree handles GET /api/ontology/drafts/:draftId/export
func (h *Handler) MaterializeTree(c echo.Context) error {
	draftID := c.Param("draftId")
	if _, err := uuid.Parse(draftID); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid draft id format")
	}

	tree, err := h.svc.MaterializeTree(c.Request().Context(), draftID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}
