package ports

import (
	"context"
	"time"

	"github.com/coderr/marketplace/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Returned orders
// carry only PackageID; the package is resolved by the service.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListForUser returns orders where userID is the customer or the business
	// user, newest first.
	ListForUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, ts time.Time) error
	Delete(ctx context.Context, id int64) error
	CountByBusinessUser(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error)
}
