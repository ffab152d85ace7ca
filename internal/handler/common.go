// Package handler holds the echo HTTP handlers. Handlers bind and validate
// input, call a service with a bounded context, and map domain errors onto
// status codes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/model"
)

const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// parsePageQuery reads page, size, sortBy, sortDir, status and search.
// Unparseable numbers fall back to the defaults.
func parsePageQuery(c echo.Context) model.PageQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return model.PageQuery{
		Page:    page,
		Size:    size,
		SortBy:  c.QueryParam("sortBy"),
		SortDir: c.QueryParam("sortDir"),
		Status:  c.QueryParam("status"),
		Search:  c.QueryParam("search"),
		Actor:   middleware.Actor(c),
	}.Normalize()
}

// statusFor maps an error kind onto an HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// errorResponse writes domain errors as {"error": msg}. Anything else is
// handed to echo as an HTTPError carrying the cause, so the request logger
// records it while the client only sees a generic message.
func errorResponse(c echo.Context, err error) error {
	code := statusFor(err)
	if msg := model.Message(err); msg != "" && code < http.StatusInternalServerError {
		return c.JSON(code, echo.Map{"error": msg})
	}
	return echo.NewHTTPError(code, http.StatusText(code)).SetInternal(err)
}

// ErrorHandler renders echo errors with the same {"error": msg} body the
// handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := any(http.StatusText(code))
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = he.Message
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}
