package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order after checking that its package still exists.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	db := r.db.WithContext(ctx)

	var n int64
	if err := db.Model(&packageModel{}).Where("id = ?", order.PackageID).Count(&n).Error; err != nil {
		return fmt.Errorf("check package: %w", err)
	}
	if n == 0 {
		return domain.ErrPackageNotFound
	}

	m := toOrderModel(order)
	if err := db.Omit(clause.Associations).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrPackageNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = m.ID
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m orderModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) ListForUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	var models []orderModel
	err := r.db.WithContext(ctx).
		Where("customer_user_id = ? OR business_user_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]*domain.Order, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, ts time.Time) error {
	res := r.db.WithContext(ctx).Model(&orderModel{ID: id}).Updates(map[string]any{
		"status":     string(status),
		"updated_at": ts.UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&orderModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) CountByBusinessUser(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&orderModel{}).
		Where("business_user_id = ? AND status = ?", businessUserID, string(status)).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

var _ ports.OrderRepository = (*OrderRepository)(nil)
