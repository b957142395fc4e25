package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID            string     `json:"id"`
	Auth0ID       *string    `json:"auth0Id"`
	Name          *string    `json:"name"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"emailVerified"`
	Image         *string    `json:"image"`
	Phone         *string    `json:"phone"`
	Role          Role       `json:"role"`
	SyncPending   bool       `json:"syncPending"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// HasIdentity indica si el usuario ya está vinculado al proveedor de identidad
func (u *User) HasIdentity() bool {
	return u.Auth0ID != nil && *u.Auth0ID != ""
}

type CreateUserRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
	Phone *string `json:"phone"`
	Role  Role    `json:"role"`
}

type UpdateUserRequest struct {
	ID    string  `json:"-"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Image *string `json:"image"`
	Phone *string `json:"phone"`
	Role  *Role   `json:"role"`
}

// Claims son los datos de la sesión emitida por el frontend
type Claims struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
