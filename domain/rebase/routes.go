package rebase

import "github.com/labstack/echo/v4"

// RegisterRoutes registers rebase routes with the Echo router.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/api/ontology/drafts/:draftId/rebase", h.Rebase)
}
