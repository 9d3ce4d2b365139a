package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account type embedded in a token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDealer   Role = "dealer"
)

// Customer is a storefront account.
type Customer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Dealer is a seller account that owns products.
type Dealer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	BusinessName string    `json:"businessName"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest is shared by customer and dealer registration.
type RegisterRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Phone        string   `json:"phone,omitempty"`
	BusinessName string   `json:"businessName,omitempty"`
	Address      *Address `json:"address,omitempty"`
}

// LoginRequest is shared by customer and dealer login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	BusinessName *string  `json:"businessName,omitempty"`
	Address      *Address `json:"address,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string `json:"token"`
	Role    Role   `json:"role"`
	Account any    `json:"account"`
}
