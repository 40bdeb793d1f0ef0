package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// ProfilePatch is a partial profile update. Nil fields are left untouched.
// File is only written when FileSet is true, in which case a nil File clears it.
type ProfilePatch struct {
	Username     *string
	Email        *string
	FirstName    *string
	LastName     *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string
	File         *string
	FileSet      bool
}

type ProfileService interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, principal domain.Principal, id int64, patch ProfilePatch) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
