package model

import (
	"strings"
	"time"
)

// Role is the access level attached to a user account.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleEventManager Role = "EVENT_MANAGER"
	RoleCustomer     Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEventManager, RoleCustomer:
		return true
	}
	return false
}

// Staff reports whether the role may manage venues, bookings and tickets.
func (r Role) Staff() bool { return r == RoleAdmin || r == RoleEventManager }

// ParseRole maps user input onto a Role. Empty input defaults to CUSTOMER.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if r == "" {
		return RoleCustomer, nil
	}
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User mirrors a row in the `users` table. EVENT_MANAGER accounts start with
// Enabled=false until an administrator approves them.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Username     string    `json:"username"`   // users.username
	Email        string    `json:"email"`      // users.email
	PasswordHash string    `json:"-"`          // users.password_hash
	Role         Role      `json:"role"`       // users.role
	Enabled      bool      `json:"enabled"`    // users.enabled
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
