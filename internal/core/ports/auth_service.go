package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	RepeatedPassword string
	Role             domain.Role // empty defaults to customer
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// CreateStaffInput carries the data for the create-staff command.
type CreateStaffInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	// Authenticate resolves a bearer token to its principal or returns
	// domain.ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
	CreateStaff(ctx context.Context, input CreateStaffInput) (*domain.User, error)
}
