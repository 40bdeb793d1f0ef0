package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/core/domain"
)

// PackageInput holds one package definition of a new offer.
type PackageInput struct {
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              decimal.Decimal
	Features           []string
	Type               domain.PackageType
}

// CreateOfferInput carries all data needed to create a new offer.
type CreateOfferInput struct {
	Title       string
	Image       *string
	Description string
	Packages    []PackageInput
}

// UpdateOfferInput is a partial offer update. Image is only written when
// ImageSet is true. Packages are matched by type; unknown types are ignored.
type UpdateOfferInput struct {
	Title       *string
	Description *string
	Image       *string
	ImageSet    bool
	Packages    []domain.PackagePatch
}

// ListOffersInput carries all parameters for the list endpoint.
type ListOffersInput struct {
	CreatorID       *int64
	MinPrice        *decimal.Decimal
	MaxDeliveryTime *int
	Search          string
	Ordering        string
	Page            int
	PageSize        int
}

// OfferPage is returned by List. Owners holds the owner of every item.
type OfferPage struct {
	Items    []*domain.Offer
	Owners   map[int64]*domain.User
	Total    int64
	Page     int
	PageSize int
}

// HasNext reports whether a page follows this one.
func (p *OfferPage) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Total
}

type OfferService interface {
	Create(ctx context.Context, principal domain.Principal, input CreateOfferInput) (*domain.Offer, error)
	Get(ctx context.Context, id int64) (*domain.Offer, error)
	List(ctx context.Context, input ListOffersInput) (*OfferPage, error)
	Update(ctx context.Context, principal domain.Principal, id int64, input UpdateOfferInput) (*domain.Offer, error)
	Delete(ctx context.Context, principal domain.Principal, id int64) error
	GetPackage(ctx context.Context, id int64) (*domain.Package, error)
}
