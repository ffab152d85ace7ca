package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/model"
)

// RegisterCustomer mounts the CUSTOMER-only endpoints: placing and paying
// for bookings. Ownership is checked by the services.
func RegisterCustomer(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.POST("/bookings", h.Bookings.Create)
	g.POST("/bookings/:id/pay", h.Bookings.Pay)
}

// RegisterAuthenticated mounts endpoints open to every role. Customers are
// scoped to their own records by the services.
func RegisterAuthenticated(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleEventManager, model.RoleCustomer),
	)

	// ---- Bookings ----
	g.GET("/bookings", h.Bookings.List)
	g.GET("/bookings/:id", h.Bookings.Get)
	g.POST("/bookings/:id/cancel", h.Bookings.Cancel)
	g.GET("/bookings/:id/payment-quote", h.Bookings.Quote)

	// ---- Payments ----
	g.GET("/payments", h.Bookings.ListPayments)
	g.GET("/payments/:id", h.Bookings.GetPayment)

	// ---- Tickets ----
	g.GET("/tickets", h.Tickets.List)
	g.POST("/tickets", h.Tickets.Create)
	g.GET("/tickets/:id", h.Tickets.Get)
}
