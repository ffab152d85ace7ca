package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
)

// Bookings is the booking lifecycle used by BookingHandler.
type Bookings interface {
	Create(ctx context.Context, userID, venueID uint64, start, end time.Time) (*model.Booking, error)
	Get(ctx context.Context, id uint64, actor model.Actor) (*model.Booking, error)
	List(ctx context.Context, q model.PageQuery) (model.Page[model.Booking], error)
	Cancel(ctx context.Context, id uint64, actor model.Actor) (*model.Booking, error)
	Complete(ctx context.Context, id uint64) (*model.Booking, error)
}

// Payments charges bookings and lists payments.
type Payments interface {
	Quote(ctx context.Context, bookingID uint64, actor model.Actor) (service.Quote, error)
	Process(ctx context.Context, bookingID uint64, actor model.Actor) (*model.Payment, error)
	Get(ctx context.Context, id uint64, actor model.Actor) (*model.Payment, error)
	List(ctx context.Context, q model.PageQuery) (model.Page[model.Payment], error)
}

type BookingHandler struct {
	Bookings Bookings
	Payments Payments
}

func NewBookingHandler(b Bookings, p Payments) *BookingHandler {
	return &BookingHandler{Bookings: b, Payments: p}
}

type createBookingReq struct {
	VenueID   uint64 `json:"venue_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, defaults to today
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, defaults to start_date
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.VenueID == 0 {
		return badRequest(c, "venue_id required")
	}
	start, err := model.ParseDate(req.StartDate)
	if err != nil {
		return badRequest(c, "start_date must be YYYY-MM-DD")
	}
	end, err := model.ParseDate(req.EndDate)
	if err != nil {
		return badRequest(c, "end_date must be YYYY-MM-DD")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.Create(ctx, middleware.UserID(c), req.VenueID, start, end)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /v1/bookings. Customers only see their own.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Bookings.List(ctx, parsePageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.Get(ctx, id, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.Cancel(ctx, id, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Complete handles POST /v1/bookings/:id/complete.
func (h *BookingHandler) Complete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.Complete(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Quote handles GET /v1/bookings/:id/payment-quote.
func (h *BookingHandler) Quote(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, err := h.Payments.Quote(ctx, id, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// Pay handles POST /v1/bookings/:id/pay.
func (h *BookingHandler) Pay(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Process(ctx, id, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPayments handles GET /v1/payments.
func (h *BookingHandler) ListPayments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Payments.List(ctx, parsePageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetPayment handles GET /v1/payments/:id.
func (h *BookingHandler) GetPayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Get(ctx, id, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
