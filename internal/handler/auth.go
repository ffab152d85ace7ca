package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
)

// Accounts is the part of the user directory the auth endpoints need.
type Accounts interface {
	Register(ctx context.Context, username, email, password, role string) (*model.User, error)
	Get(ctx context.Context, id uint64) (*model.User, error)
}

// Sessions issues and revokes token pairs.
type Sessions interface {
	Login(ctx context.Context, login, password string) (*service.Session, error)
	Refresh(ctx context.Context, raw string) (*service.Session, error)
	Logout(ctx context.Context, raw string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users    Accounts
	Sessions Sessions
}

func NewAuthHandler(users Accounts, sessions Sessions) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // CUSTOMER | EVENT_MANAGER
}

type loginReq struct {
	Login    string `json:"login"` // username or email
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account. Event managers get 201 but cannot log in
// until approved.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Register(ctx, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return errorResponse(c, err)
	}
	resp := echo.Map{"user": u}
	if !u.Enabled {
		resp["message"] = "registration received, awaiting admin approval"
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return badRequest(c, "login/password required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sessions.Login(ctx, req.Login, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Refresh rotates the refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sessions.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Logout revokes the given refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Logout(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Get(ctx, middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
