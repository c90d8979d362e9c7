package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrForbidden = errors.New("access forbidden")

// User models a shopper account. The cart record in the store is keyed by ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
