package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

const msgBlank = "This field may not be blank."

type ProfileService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewProfileService(users ports.UserRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, log: log}
}

func (s *ProfileService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies patch to the principal's own profile. The role is never
// written here.
func (s *ProfileService) Update(ctx context.Context, principal domain.Principal, id int64, patch ports.ProfilePatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanUpdateProfile(principal, user) {
		return nil, domain.ErrForbidden
	}

	v := domain.NewValidationError()
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		v.Add("username", msgBlank)
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		v.Add("email", msgBlank)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	setString(&user.Username, patch.Username)
	setString(&user.Email, patch.Email)
	setString(&user.FirstName, patch.FirstName)
	setString(&user.LastName, patch.LastName)
	setString(&user.Location, patch.Location)
	setString(&user.Tel, patch.Tel)
	setString(&user.Description, patch.Description)
	setString(&user.WorkingHours, patch.WorkingHours)
	if patch.FileSet {
		user.File = patch.File
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.FieldError("username", "A user with that username already exists.")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("profile updated")
	return user, nil
}

func (s *ProfileService) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.users.ListByRole(ctx, role)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
