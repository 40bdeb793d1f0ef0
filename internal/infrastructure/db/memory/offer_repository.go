package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type OfferRepository struct {
	s *Store
}

func NewOfferRepository(s *Store) *OfferRepository {
	return &OfferRepository{s: s}
}

func (r *OfferRepository) CreateWithPackages(_ context.Context, offer *domain.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[domain.PackageType]bool, len(offer.Packages))
	for _, p := range offer.Packages {
		if seen[p.Type] {
			return domain.FieldError("details", "Duplicate offer_type \""+string(p.Type)+"\".")
		}
		seen[p.Type] = true
	}

	offer.ID = r.s.next("offers")
	r.s.offers[offer.ID] = cloneOffer(offer)
	for i := range offer.Packages {
		p := &offer.Packages[i]
		p.ID = r.s.next("packages")
		p.OfferID = offer.ID
		r.s.packages[p.ID] = clonePackage(p)
	}
	return nil
}

func (r *OfferRepository) FindByID(_ context.Context, id int64) (*domain.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return r.withPackages(o), nil
}

// withPackages copies o and attaches its packages. Callers hold the lock.
func (r *OfferRepository) withPackages(o *domain.Offer) *domain.Offer {
	cp := cloneOffer(o)
	for _, p := range r.s.packages {
		if p.OfferID == o.ID {
			cp.Packages = append(cp.Packages, *clonePackage(p))
		}
	}
	domain.SortPackages(cp.Packages)
	return cp
}

func (r *OfferRepository) List(_ context.Context, f ports.ListOffersFilter) ([]*domain.Offer, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	matched := make([]*domain.Offer, 0)
	for _, o := range r.s.offers {
		if f.CreatorID != nil && o.OwnerID != *f.CreatorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.Title), search) &&
			!strings.Contains(strings.ToLower(o.Description), search) {
			continue
		}
		full := r.withPackages(o)
		if f.MinPrice != nil && !anyPackage(full, func(p domain.Package) bool { return p.Price.GreaterThanOrEqual(*f.MinPrice) }) {
			continue
		}
		if f.MaxDeliveryTime != nil && !anyPackage(full, func(p domain.Package) bool { return p.DeliveryTimeInDays <= *f.MaxDeliveryTime }) {
			continue
		}
		matched = append(matched, full)
	}

	sortOffers(matched, f.Ordering)

	total := int64(len(matched))
	start := min(max(f.Offset, 0), len(matched))
	end := len(matched)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func anyPackage(o *domain.Offer, pred func(domain.Package) bool) bool {
	for _, p := range o.Packages {
		if pred(p) {
			return true
		}
	}
	return false
}

// sortOffers orders by the requested key, newest ID first on ties. Offers
// without packages sort last by price in both directions.
func sortOffers(offers []*domain.Offer, ordering string) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		switch ordering {
		case ports.OfferOrderPriceAsc, ports.OfferOrderPriceDesc:
			pa, pb := a.MinPrice(), b.MinPrice()
			switch {
			case pa == nil && pb == nil:
			case pa == nil:
				return false
			case pb == nil:
				return true
			case !pa.Equal(*pb):
				if ordering == ports.OfferOrderPriceAsc {
					return pa.LessThan(*pb)
				}
				return pa.GreaterThan(*pb)
			}
		case ports.OfferOrderUpdatedAsc:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		default:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		}
		return a.ID > b.ID
	})
}

func (r *OfferRepository) Update(_ context.Context, offer *domain.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.offers[offer.ID]; !ok {
		return domain.ErrOfferNotFound
	}
	r.s.offers[offer.ID] = cloneOffer(offer)
	for i := range offer.Packages {
		p := offer.Packages[i]
		if existing, ok := r.s.packages[p.ID]; ok && existing.OfferID == offer.ID {
			r.s.packages[p.ID] = clonePackage(&p)
		}
	}
	return nil
}

func (r *OfferRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.offers[id]; !ok {
		return domain.ErrOfferNotFound
	}
	delete(r.s.offers, id)
	for pid, p := range r.s.packages {
		if p.OfferID != id {
			continue
		}
		delete(r.s.packages, pid)
		for oid, o := range r.s.orders {
			if o.PackageID == pid {
				delete(r.s.orders, oid)
			}
		}
	}
	return nil
}

func (r *OfferRepository) FindPackage(_ context.Context, id int64) (*domain.Package, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.packages[id]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	return clonePackage(p), nil
}

func (r *OfferRepository) FindPackages(_ context.Context, ids []int64) (map[int64]*domain.Package, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[int64]*domain.Package, len(ids))
	for _, id := range ids {
		if p, ok := r.s.packages[id]; ok {
			out[id] = clonePackage(p)
		}
	}
	return out, nil
}

func (r *OfferRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.offers)), nil
}
