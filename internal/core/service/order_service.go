package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type OrderService struct {
	orders ports.OrderRepository
	offers ports.OfferRepository
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, offers ports.OfferRepository, users ports.UserRepository, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, offers: offers, users: users, log: log}
}

func (s *OrderService) List(ctx context.Context, principal domain.Principal) ([]*domain.Order, error) {
	orders, err := s.orders.ListForUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := s.attachPackages(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Create places an order for the given package. The business user is the
// owner of the package's offer; clients cannot choose it.
func (s *OrderService) Create(ctx context.Context, principal domain.Principal, packageID int64) (*domain.Order, error) {
	if !domain.CanCreateOrder(principal) {
		return nil, domain.ErrForbidden
	}

	pkg, err := s.offers.FindPackage(ctx, packageID)
	if errors.Is(err, domain.ErrPackageNotFound) {
		return nil, domain.FieldError("offer_detail_id", "OfferDetail not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	offer, err := s.offers.FindByID(ctx, pkg.OfferID)
	if err != nil {
		return nil, fmt.Errorf("create order: offer: %w", err)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		CustomerUserID: principal.UserID,
		BusinessUserID: offer.OwnerID,
		PackageID:      pkg.ID,
		Status:         domain.OrderInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, domain.ErrPackageNotFound) {
			return nil, domain.FieldError("offer_detail_id", "OfferDetail not found.")
		}
		s.log.Error().Err(err).Int64("package_id", packageID).Msg("failed to create order")
		return nil, err
	}
	order.Package = pkg

	s.log.Info().
		Int64("order_id", order.ID).
		Int64("customer_user", order.CustomerUserID).
		Int64("business_user", order.BusinessUserID).
		Msg("order created")
	return order, nil
}

// UpdateStatus checks existence, then permission, then the status value.
func (s *OrderService) UpdateStatus(ctx context.Context, principal domain.Principal, id int64, status string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanUpdateOrderStatus(principal, order) {
		return nil, domain.ErrForbidden
	}

	next := domain.OrderStatus(status)
	if status == "" {
		return nil, domain.FieldError("status", msgRequired)
	}
	if !next.Valid() {
		return nil, domain.FieldError("status", fmt.Sprintf("%q is not a valid choice.", status))
	}

	now := time.Now().UTC()
	if err := s.orders.UpdateStatus(ctx, id, next, now); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = next
	order.UpdatedAt = now

	if err := s.attachPackages(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}

	s.log.Info().Int64("order_id", id).Str("status", string(next)).Msg("order status updated")
	return order, nil
}

// Delete is restricted to staff. Permission is checked before existence.
func (s *OrderService) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	if !domain.CanDeleteOrder(principal) {
		return domain.ErrForbidden
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("order_id", id).Int64("staff_user", principal.UserID).Msg("order deleted")
	return nil
}

func (s *OrderService) CountForBusiness(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
	user, err := s.users.FindByID(ctx, businessUserID)
	if err != nil {
		return 0, err
	}
	if user.Role != domain.RoleBusiness {
		return 0, domain.ErrUserNotFound
	}
	return s.orders.CountByBusinessUser(ctx, businessUserID, status)
}

// attachPackages resolves each order's package live from the offer store.
func (s *OrderService) attachPackages(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.PackageID)
	}
	pkgs, err := s.offers.FindPackages(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve order packages: %w", err)
	}
	for _, o := range orders {
		o.Package = pkgs[o.PackageID]
	}
	return nil
}
