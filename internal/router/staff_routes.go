package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/model"
)

// RegisterStaff mounts the endpoints shared by ADMIN and EVENT_MANAGER.
func RegisterStaff(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleEventManager),
	)

	// ---- Venues ----
	g.POST("/venues", h.Venues.Create)
	g.PUT("/venues/:id", h.Venues.Update)
	g.DELETE("/venues/:id", h.Venues.Delete)
	g.POST("/venues/:id/maintenance", h.Venues.Maintenance)
	g.POST("/venues/:id/available", h.Venues.MarkAvailable)

	// ---- Bookings ----
	g.POST("/bookings/:id/complete", h.Bookings.Complete)

	// ---- Tickets ----
	g.POST("/tickets/:id/resolve", h.Tickets.Resolve)
}

// RegisterAdmin mounts the ADMIN-only approval and reporting endpoints.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/approvals", a.ListApprovals)
	g.POST("/approve/:id", a.Approve)
	g.POST("/reject/:id", a.Reject)
	g.GET("/dashboard", a.Dashboard)
	g.GET("/bookings/export", a.ExportBookings)
}
