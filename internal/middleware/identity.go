package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated user's ID, or 0 for anonymous requests.
func UserID(c echo.Context) uint64 {
	if id, ok := c.Get(ctxUserID).(uint64); ok {
		return id
	}
	return 0
}

// Role returns the authenticated user's role, or "" for anonymous requests.
func Role(c echo.Context) model.Role {
	if r, ok := c.Get(ctxRole).(model.Role); ok {
		return r
	}
	return ""
}

// Actor bundles UserID and Role for service calls.
func Actor(c echo.Context) model.Actor {
	return model.Actor{UserID: UserID(c), Role: Role(c)}
}

// SetIdentity stores an identity the same way JWTAuth does. Tests use it to
// skip token signing.
func SetIdentity(c echo.Context, id uint64, role model.Role) {
	c.Set(ctxUserID, id)
	c.Set(ctxRole, role)
}

func rateIdentity(c echo.Context) string {
	if id := UserID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
