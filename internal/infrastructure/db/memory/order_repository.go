package memory

import (
	"context"
	"sort"
	"time"

	"github.com/coderr/marketplace/internal/core/domain"
)

type OrderRepository struct {
	s *Store
}

func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{s: s}
}

func (r *OrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.packages[order.PackageID]; !ok {
		return domain.ErrPackageNotFound
	}
	order.ID = r.s.next("orders")
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) ListForUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Order, 0)
	for _, o := range r.s.orders {
		if o.CustomerUserID == userID || o.BusinessUserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus, ts time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = ts
	return nil
}

func (r *OrderRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func (r *OrderRepository) CountByBusinessUser(_ context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, o := range r.s.orders {
		if o.BusinessUserID == businessUserID && o.Status == status {
			n++
		}
	}
	return n, nil
}
