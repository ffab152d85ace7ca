package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/model"
)

// Tickets is the support desk used by TicketHandler.
type Tickets interface {
	Create(ctx context.Context, customerID uint64, issueType, description string) (*model.SupportTicket, error)
	Resolve(ctx context.Context, id uint64, notes string) (*model.SupportTicket, error)
	Get(ctx context.Context, id uint64, actor model.Actor) (*model.SupportTicket, error)
	List(ctx context.Context, q model.PageQuery) (model.Page[model.SupportTicket], error)
}

type TicketHandler struct {
	Tickets Tickets
}

func NewTicketHandler(t Tickets) *TicketHandler { return &TicketHandler{Tickets: t} }

// Create handles POST /v1/tickets.
func (h *TicketHandler) Create(c echo.Context) error {
	var body struct {
		IssueType   string `json:"issue_type"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.Create(ctx, middleware.UserID(c), body.IssueType, body.Description)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Resolve handles POST /v1/tickets/:id/resolve.
func (h *TicketHandler) Resolve(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		ResolutionNotes string `json:"resolution_notes"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.Resolve(ctx, id, body.ResolutionNotes)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.Get(ctx, id, middleware.Actor(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// List handles GET /v1/tickets. Customers only see their own.
func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Tickets.List(ctx, parsePageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
