package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/utils"
)

// Session is the token pair handed to a client after login or refresh.
type Session struct {
	AccessToken  string      `json:"access_token"`
	AccessExp    time.Time   `json:"access_expires_at"`
	RefreshToken string      `json:"refresh_token"`
	RefreshExp   time.Time   `json:"refresh_expires_at"`
	User         *model.User `json:"user"`
}

// AuthService issues JWT access tokens and rotating refresh tokens.
type AuthService struct {
	users      *UserService
	tokens     TokenStore
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users *UserService, tokens TokenStore, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Login authenticates and opens a new session.
func (s *AuthService) Login(ctx context.Context, login, password string) (*Session, error) {
	u, err := s.users.Authenticate(ctx, login, password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rt, err := utils.NewRefreshToken(s.refreshTTL, now)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(rt.Raw), rt.Exp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return s.session(u, rt, now)
}

// Refresh exchanges a refresh token for a new pair; the old one is revoked.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, model.ErrInvalidRefresh
	}
	now := s.now()
	rt, err := utils.NewRefreshToken(s.refreshTTL, now)
	if err != nil {
		return nil, err
	}
	userID, err := s.tokens.Rotate(ctx, utils.HashRefreshRaw(raw), utils.HashRefreshRaw(rt.Raw), now.UTC(), rt.Exp)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Enabled {
		// the rotated token is useless to a disabled account
		_ = s.tokens.RevokeAllForUser(ctx, u.ID)
		return nil, model.ErrAccountDisabled
	}
	return s.session(u, rt, now)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	return s.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw))
}

func (s *AuthService) session(u *model.User, rt utils.RefreshToken, now time.Time) (*Session, error) {
	at, err := utils.NewAccessToken(s.secret, u.ID, u.Role, s.accessTTL, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &Session{
		AccessToken:  at.Token,
		AccessExp:    at.Exp,
		RefreshToken: rt.Raw,
		RefreshExp:   rt.Exp,
		User:         u,
	}, nil
}
