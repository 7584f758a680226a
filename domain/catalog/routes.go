package catalog

import "github.com/labstack/echo/v4"

// RegisterRoutes registers canonical catalog routes with the Echo router.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/ontology/versions/:versionId")

	g.GET("/entities/:type", h.ListByType)
	g.GET("/entities/:type/:key", h.GetEntity)
	g.GET("/categories/:key/effective-properties", h.EffectiveProperties)
}
