package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
)

// Venues is the venue inventory used by VenueHandler.
type Venues interface {
	Create(ctx context.Context, in service.VenueInput, img *service.Upload) (*model.Venue, error)
	Update(ctx context.Context, id uint64, in service.VenueInput, img *service.Upload) (*model.Venue, error)
	Get(ctx context.Context, id uint64) (*model.Venue, error)
	List(ctx context.Context, q model.PageQuery) (model.Page[model.Venue], error)
	Available(ctx context.Context) ([]model.Venue, error)
	SetStatus(ctx context.Context, id uint64, status model.VenueStatus) (*model.Venue, error)
	Delete(ctx context.Context, id uint64) error
}

type VenueHandler struct {
	Venues Venues
}

func NewVenueHandler(v Venues) *VenueHandler { return &VenueHandler{Venues: v} }

// List handles GET /v1/venues.
func (h *VenueHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Venues.List(ctx, parsePageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Available handles GET /v1/venues/available.
func (h *VenueHandler) Available(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Venues.Available(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/venues/:id.
func (h *VenueHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Venues.Get(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// venueForm reads the venue fields from a JSON or multipart body. The
// price is given in currency units, e.g. "1000.50".
func venueForm(c echo.Context) (service.VenueInput, *service.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		var body struct {
			Name        string  `json:"name"`
			Location    string  `json:"location"`
			Capacity    int     `json:"capacity"`
			PricePerDay float64 `json:"price_per_day"`
			Status      string  `json:"status"`
		}
		if err := c.Bind(&body); err != nil {
			return service.VenueInput{}, nil, noop, err
		}
		status, err := model.ParseVenueStatus(body.Status)
		if err != nil {
			return service.VenueInput{}, nil, noop, err
		}
		cents, err := toCents(body.PricePerDay)
		if err != nil {
			return service.VenueInput{}, nil, noop, err
		}
		return service.VenueInput{
			Name:             body.Name,
			Location:         body.Location,
			Capacity:         body.Capacity,
			PricePerDayCents: cents,
			Status:           status,
		}, nil, noop, nil
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(c.FormValue("capacity")))
	if err != nil {
		return service.VenueInput{}, nil, noop, errInvalidField("capacity")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price_per_day")), 64)
	if err != nil {
		return service.VenueInput{}, nil, noop, errInvalidField("price_per_day")
	}
	cents, err := toCents(price)
	if err != nil {
		return service.VenueInput{}, nil, noop, err
	}
	status, err := model.ParseVenueStatus(c.FormValue("status"))
	if err != nil {
		return service.VenueInput{}, nil, noop, err
	}
	in := service.VenueInput{
		Name:             c.FormValue("name"),
		Location:         c.FormValue("location"),
		Capacity:         capacity,
		PricePerDayCents: cents,
		Status:           status,
	}

	fh, err := c.FormFile("image")
	if err != nil {
		// image is optional
		return in, nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return service.VenueInput{}, nil, noop, err
	}
	return in, &service.Upload{Filename: fh.Filename, Body: f}, func() { f.Close() }, nil
}

// toCents converts a price in currency units, rounding to the nearest cent.
// Values that are not finite or exceed model.MaxPricePerDayCents are rejected
// before the conversion can overflow.
func toCents(units float64) (int64, error) {
	if math.IsNaN(units) || math.IsInf(units, 0) || math.Abs(units)*100 > float64(model.MaxPricePerDayCents) {
		return 0, errInvalidField("price_per_day")
	}
	if units < 0 {
		return int64(units*100 - 0.5), nil
	}
	return int64(units*100 + 0.5), nil
}

func errInvalidField(name string) error {
	return &fieldError{name: name}
}

type fieldError struct{ name string }

func (e *fieldError) Error() string { return "invalid " + e.name }
func (e *fieldError) Unwrap() error { return model.ErrValidation }

// Create handles POST /v1/venues.
func (h *VenueHandler) Create(c echo.Context) error {
	in, img, done, err := venueForm(c)
	if err != nil {
		return venueFormError(c, err)
	}
	defer done()
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Venues.Create(ctx, in, img)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// Update handles PUT /v1/venues/:id.
func (h *VenueHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	in, img, done, err := venueForm(c)
	if err != nil {
		return venueFormError(c, err)
	}
	defer done()
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Venues.Update(ctx, id, in, img)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func venueFormError(c echo.Context, err error) error {
	if msg := model.Message(err); msg != "" {
		return badRequest(c, err.Error())
	}
	return badRequest(c, "invalid body")
}

// Delete handles DELETE /v1/venues/:id.
func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Venues.Delete(ctx, id); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Maintenance handles POST /v1/venues/:id/maintenance.
func (h *VenueHandler) Maintenance(c echo.Context) error {
	return h.setStatus(c, model.VenueMaintenance)
}

// MarkAvailable handles POST /v1/venues/:id/available.
func (h *VenueHandler) MarkAvailable(c echo.Context) error {
	return h.setStatus(c, model.VenueAvailable)
}

func (h *VenueHandler) setStatus(c echo.Context, status model.VenueStatus) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Venues.SetStatus(ctx, id, status)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, v)
}
