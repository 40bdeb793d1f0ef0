package domain

import "time"

// Role is the account type chosen at registration.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleBusiness
}

// User models a marketplace account together with its public profile.
// Text profile fields are never nil; File is an optional image reference.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	IsStaff      bool
	File         *string
	Location     string
	Tel          string
	Description  string
	WorkingHours string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the authorization view of the user.
func (u *User) Principal() Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		IsStaff:  u.IsStaff,
	}
}
