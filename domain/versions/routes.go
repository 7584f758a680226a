package versions

import "github.com/labstack/echo/v4"

// RegisterRoutes registers version routes with the Echo router.
// The literal "current" segment must be registered before the :versionId
// param route.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/ontology/versions")

	g.GET("", h.List)
	g.POST("", h.Ingest)
	g.GET("/current", h.GetCurrent)
	g.GET("/:versionId", h.GetByID)
}
