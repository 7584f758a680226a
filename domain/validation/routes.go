package validation

import "github.com/labstack/echo/v4"

// RegisterRoutes registers validation routes with the Echo router.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/api/ontology/drafts/:draftId/validate", h.Validate)
}
