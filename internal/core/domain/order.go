package domain

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order links a customer to one package of a business user's offer. The
// package is held by reference: Package is loaded live on every read.
type Order struct {
	ID             int64
	CustomerUserID int64
	BusinessUserID int64
	PackageID      int64
	Package        *Package
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
