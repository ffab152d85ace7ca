package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
)

// Approvals is the event manager approval workflow.
type Approvals interface {
	PendingManagers(ctx context.Context) ([]model.User, error)
	ApprovedManagers(ctx context.Context) ([]model.User, error)
	Approve(ctx context.Context, id uint64) (*model.User, error)
	Reject(ctx context.Context, id uint64) error
}

// Reports serves the administrator dashboard and exports.
type Reports interface {
	Admin(ctx context.Context) (service.DashboardStats, error)
	ExportBookings(ctx context.Context, w io.Writer) error
}

type AdminHandler struct {
	Approvals Approvals
	Reports   Reports
}

func NewAdminHandler(a Approvals, r Reports) *AdminHandler {
	return &AdminHandler{Approvals: a, Reports: r}
}

// ListApprovals handles GET /v1/admin/approvals.
func (h *AdminHandler) ListApprovals(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	pending, err := h.Approvals.PendingManagers(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	approved, err := h.Approvals.ApprovedManagers(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pending": pending, "approved": approved})
}

// Approve handles POST /v1/admin/approve/:id.
func (h *AdminHandler) Approve(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Approvals.Approve(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Reject handles POST /v1/admin/reject/:id.
func (h *AdminHandler) Reject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Approvals.Reject(ctx, id); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard handles GET /v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Reports.Admin(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportBookings handles GET /v1/admin/bookings/export. The workbook is
// built in memory so a failure still yields a JSON error.
func (h *AdminHandler) ExportBookings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var buf bytes.Buffer
	if err := h.Reports.ExportBookings(ctx, &buf); err != nil {
		return errorResponse(c, err)
	}
	name := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
