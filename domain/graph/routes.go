package graph

import "github.com/labstack/echo/v4"

// RegisterRoutes registers traversal routes with the Echo router.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/ontology/graph")

	g.GET("/neighborhood/:type/:key", h.Neighborhood)
	g.GET("/modules/:key", h.ModuleGraph)
	g.GET("/closure/:type/:key", h.Closure)
}
