package drafts

import "github.com/labstack/echo/v4"

// RegisterRoutes registers draft routes with the Echo router.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/ontology/drafts")

	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:draftId", h.GetByID)
	g.POST("/:draftId/transition", h.Transition)
	g.GET("/:draftId/changes", h.ListChanges)
	g.PUT("/:draftId/changes", h.UpsertChange)
	g.DELETE("/:draftId/changes/:type/:key", h.RemoveChange)
}
