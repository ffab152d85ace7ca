package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/utils"
)

// UserService handles registration, credential checks and the event
// manager approval workflow.
type UserService struct {
	users      UserStore
	bcryptCost int
	log        *zap.Logger
}

func NewUserService(users UserStore, bcryptCost int, log *zap.Logger) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost, log: log.Named("user")}
}

// Register creates a CUSTOMER or EVENT_MANAGER account. Event managers start
// disabled until an administrator approves them.
func (s *UserService) Register(ctx context.Context, username, email, password, role string) (*model.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, fmt.Errorf("%w: username", model.ErrMissingField)
	case email == "" || !strings.Contains(email, "@"):
		return nil, fmt.Errorf("%w: email", model.ErrMissingField)
	case password == "":
		return nil, fmt.Errorf("%w: password", model.ErrMissingField)
	}
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, err
	}
	if r == model.RoleAdmin {
		return nil, model.ErrInvalidRole
	}
	return s.create(ctx, username, email, password, r, r != model.RoleEventManager)
}

func (s *UserService) create(ctx context.Context, username, email, password string, role model.Role, enabled bool) (*model.User, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: username, Email: email, PasswordHash: hash, Role: role, Enabled: enabled}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint64("user_id", u.ID), zap.String("role", string(role)), zap.Bool("enabled", enabled))
	return u, nil
}

// Authenticate checks a username-or-email and password pair.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.users.GetByLogin(ctx, login)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}
	if !u.Enabled {
		return nil, model.ErrAccountDisabled
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// PendingManagers lists event managers awaiting approval.
func (s *UserService) PendingManagers(ctx context.Context) ([]model.User, error) {
	return s.nonNil(s.users.ListByRole(ctx, model.RoleEventManager, false))
}

// ApprovedManagers lists enabled event managers.
func (s *UserService) ApprovedManagers(ctx context.Context) ([]model.User, error) {
	return s.nonNil(s.users.ListByRole(ctx, model.RoleEventManager, true))
}

func (s *UserService) nonNil(users []model.User, err error) ([]model.User, error) {
	if users == nil {
		users = []model.User{}
	}
	return users, err
}

func (s *UserService) manager(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleEventManager {
		return nil, model.ErrNotEventManager
	}
	return u, nil
}

// Approve enables an event manager account.
func (s *UserService) Approve(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.manager(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetEnabled(ctx, id, true); err != nil {
		return nil, fmt.Errorf("enable user: %w", err)
	}
	u.Enabled = true
	s.log.Info("event manager approved", zap.Uint64("user_id", id))
	return u, nil
}

// Reject deletes an event manager account.
func (s *UserService) Reject(ctx context.Context, id uint64) error {
	if _, err := s.manager(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info("event manager rejected", zap.Uint64("user_id", id))
	return nil
}

// EnsureAdmin creates the given administrator when no enabled ADMIN exists.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	n, err := s.users.CountByRole(ctx, model.RoleAdmin, true)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.create(ctx, username, email, password, model.RoleAdmin, true); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	s.log.Warn("default admin account created, change its password", zap.String("username", username))
	return true, nil
}
