package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

type OrderService interface {
	// List returns the principal's own orders with their packages resolved.
	List(ctx context.Context, principal domain.Principal) ([]*domain.Order, error)
	Create(ctx context.Context, principal domain.Principal, packageID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, principal domain.Principal, id int64, status string) (*domain.Order, error)
	Delete(ctx context.Context, principal domain.Principal, id int64) error
	// CountForBusiness counts orders of a business user in the given status.
	// An ID that is not a business user yields domain.ErrUserNotFound.
	CountForBusiness(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error)
}
