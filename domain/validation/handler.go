package validation

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles validation HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new validation handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Validate handles POST /api/ontology/drafts/:draftId/validate
func (h *Handler) Validate(c echo.Context) error {
	draftID := c.Param("draftId")
	if _, err := uuid.Parse(draftID); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid draft id format")
	}

	result, err := h.svc.Validate(c.Request().Context(), draftID)
	if err != nil {
		return err
	}
	if result.Messages == nil {
		result.Messages = []Message{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []SemverSuggestion{}
	}
	return c.JSON(http.StatusOK, result)
}
