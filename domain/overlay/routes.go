package overlay

import "github.com/labstack/echo/v4"

// RegisterRoutes registers effective-view routes with the Echo router.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/ontology/effective")

	g.GET("/entities/:type", h.List)
	g.GET("/entities/:type/:key", h.Get)
	g.GET("/categories/:key/parents", h.Parents)
	g.GET("/categories/:key/properties", h.Properties)
}
