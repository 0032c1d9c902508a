package entity

import (
	"time"
)

// Roles a user account can hold. The store only distinguishes customers
// from administrators.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID       string
	Email    string
	Password string
	Name     string
	Role     string
	IsActive bool

	// Shipping information
	AddressLine string
	City        string
	State       string
	PostalCode  string
	Country     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user may perform administrative mutations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
