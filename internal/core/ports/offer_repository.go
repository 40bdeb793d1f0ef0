package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/core/domain"
)

// OfferOrdering values accepted by OfferRepository.List.
const (
	OfferOrderUpdatedAsc  = "updated_at"
	OfferOrderUpdatedDesc = "-updated_at"
	OfferOrderPriceAsc    = "min_price"
	OfferOrderPriceDesc   = "-min_price"
)

// ListOffersFilter carries all query parameters for listing offers.
type ListOffersFilter struct {
	CreatorID       *int64           // optional: exact owner match
	MinPrice        *decimal.Decimal // optional: some package priced >= MinPrice
	MaxDeliveryTime *int             // optional: some package delivered in <= MaxDeliveryTime days
	Search          string           // optional: partial match on title or description
	Ordering        string           // one of the OfferOrder* constants
	Offset          int
	Limit           int
}

// OfferRepository defines persistence operations for offers and their packages.
type OfferRepository interface {
	// CreateWithPackages stores the offer and all its packages atomically and
	// assigns their IDs. On failure nothing is persisted.
	CreateWithPackages(ctx context.Context, offer *domain.Offer) error
	// FindByID returns the offer with its packages sorted by ID.
	FindByID(ctx context.Context, id int64) (*domain.Offer, error)
	// List returns a page of offers matching filter and the total count.
	List(ctx context.Context, filter ListOffersFilter) ([]*domain.Offer, int64, error)
	// Update writes the offer fields and every package it carries.
	Update(ctx context.Context, offer *domain.Offer) error
	// Delete removes the offer, its packages and the orders referencing them.
	Delete(ctx context.Context, id int64) error
	FindPackage(ctx context.Context, id int64) (*domain.Package, error)
	// FindPackages returns the packages that exist among ids, keyed by ID.
	FindPackages(ctx context.Context, ids []int64) (map[int64]*domain.Package, error)
	Count(ctx context.Context) (int64, error)
}
