package rebase

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles rebase HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new rebase handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RebaseRequest optionally names the version to rebase onto; empty means the
// current version.
type RebaseRequest struct {
	NewVersionID string `json:"new_version_id"`
}

// Rebase handles POST /api/ontology/drafts/:draftId/rebase
func (h *Handler) Rebase(c echo.Context) error {
	draftID := c.Param("draftId")
	if _, err := uuid.Parse(draftID); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid draft id format")
	}

	var req RebaseRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}
	if req.NewVersionID != "" {
		if _, err := uuid.Parse(req.NewVersionID); err != nil {
			return apperror.ErrBadRequest.WithMessage("invalid version id format")
		}
	}

	result, err := h.svc.Rebase(c.Request().Context(), draftID, req.NewVersionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
