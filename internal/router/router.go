// Package router registers the HTTP routes on an echo instance, grouped by
// the role each group requires.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/storage"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Venues   *handler.VenueHandler
	Bookings *handler.BookingHandler
	Tickets  *handler.TicketHandler
	Admin    *handler.AdminHandler
	Health   echo.HandlerFunc
}

// Options carries the non-handler dependencies of the routes.
type Options struct {
	JWTSecret string
	UploadDir string
	Gatherer  prometheus.Gatherer
}

// Register mounts all routes.
func Register(e *echo.Echo, h Handlers, opt Options) {
	RegisterRoutes(e, h.Health, opt)
	RegisterAuth(e, h.Auth, opt.JWTSecret)
	RegisterPublic(e, h.Venues)
	RegisterStaff(e, h, opt.JWTSecret)
	RegisterCustomer(e, h, opt.JWTSecret)
	RegisterAuthenticated(e, h, opt.JWTSecret)
	RegisterAdmin(e, h.Admin, opt.JWTSecret)
}

// RegisterRoutes mounts the infrastructure endpoints: health, metrics and
// the uploaded images.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc, opt Options) {
	e.GET("/healthz", health)
	if opt.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{})))
	}
	if opt.UploadDir != "" {
		e.Static(storage.URLPrefix, opt.UploadDir)
	}
}

// RegisterAuth mounts the session endpoints under /v1/auth and /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic mounts the unauthenticated venue browse endpoints.
func RegisterPublic(e *echo.Echo, v *handler.VenueHandler) {
	e.GET("/v1/venues", v.List)
	e.GET("/v1/venues/available", v.Available)
	e.GET("/v1/venues/:id", v.Get)
}
