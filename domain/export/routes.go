package export

import "github.com/labstack/echo/v4"

// RegisterRoutes registers export routes with the Echo router.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/api/ontology/drafts/:draftId/export", h.MaterializeTree)
}
