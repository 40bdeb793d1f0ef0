package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// UserRepository defines persistence operations for accounts and profiles.
type UserRepository interface {
	// Create assigns the user ID. A taken username yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
	// ListByRole returns users of the given role, newest first.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// TokenStore keeps the single live bearer token of each user so that login
// can hand back the token already issued instead of minting a new one.
type TokenStore interface {
	// Current returns the stored token, or "" when none is stored.
	Current(ctx context.Context, userID int64) (string, error)
	Save(ctx context.Context, userID int64, token string) error
}
