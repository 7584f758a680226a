package drafts

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ontocraft/ontocraft/pkg/apperror"
)

// Handler handles draft HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new drafts handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func draftIDParam(c echo.Context) (string, error) {
	id := c.Param("draftId")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperror.ErrBadRequest.WithMessage("invalid draft id format")
	}
	return id, nil
}

// Create handles POST /api/ontology/drafts
func (h *Handler) Create(c echo.Context) error {
	var req CreateDraftRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	draft, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ToResponse(draft))
}

// List handles GET /api/ontology/drafts
func (h *Handler) List(c echo.Context) error {
	var status *DraftStatus
	if raw := c.QueryParam("status"); raw != "" {
		st := DraftStatus(raw)
		switch st {
		case StatusActive, StatusValidated, StatusSubmitted, StatusMerged, StatusAbandoned:
			status = &st
		default:
			return apperror.ErrBadRequest.WithMessage("unknown draft status")
		}
	}

	out, err := h.svc.List(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponseList(out))
}

// GetByID handles GET /api/ontology/drafts/:draftId
func (h *Handler) GetByID(c echo.Context) error {
	id, err := draftIDParam(c)
	if err != nil {
		return err
	}

	draft, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponse(draft))
}

// Transition handles POST /api/ontology/drafts/:draftId/transition
func (h *Handler) Transition(c echo.Context) error {
	id, err := draftIDParam(c)
	if err != nil {
		return err
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	to := DraftStatus(req.Status)
	switch to {
	case StatusActive, StatusValidated, StatusSubmitted, StatusMerged, StatusAbandoned:
	default:
		return apperror.ErrBadRequest.WithMessage("unknown draft status")
	}

	draft, err := h.svc.Transition(c.Request().Context(), id, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToResponse(draft))
}

// ListChanges handles GET /api/ontology/drafts/:draftId/changes
func (h *Handler) ListChanges(c echo.Context) error {
	id, err := draftIDParam(c)
	if err != nil {
		return err
	}

	changes, err := h.svc.ListChanges(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToChangeResponseList(changes))
}

// UpsertChange handles PUT /api/ontology/drafts/:draftId/changes
func (h *Handler) UpsertChange(c echo.Context) error {
	id, err := draftIDParam(c)
	if err != nil {
		return err
	}

	var req UpsertChangeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	change, err := h.svc.UpsertChange(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	if change == nil {
		// create-then-delete collapsed to nothing
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, ToChangeResponse(change))
}

// RemoveChange handles DELETE /api/ontology/drafts/:draftId/changes/:type/:key
func (h *Handler) RemoveChange(c echo.Context) error {
	id, err := draftIDParam(c)
	if err != nil {
		return err
	}

	if err := h.svc.RemoveChange(c.Request().Context(), id, c.Param("type"), c.Param("key")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
