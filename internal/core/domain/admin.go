package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
)

// Admin models an authenticated back-office actor. Accounts are provisioned
// out-of-band and never deleted through the API.
type Admin struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"` // unique, lower-cased
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name"`
	Role         string    `json:"role" bson:"role"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	LastLogin    time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
