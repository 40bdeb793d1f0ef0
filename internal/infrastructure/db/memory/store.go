// Package memory implements the repository ports over process memory. It
// backs STORAGE_DRIVER=memory for local development and the end-to-end tests.
package memory

import (
	"sync"

	"github.com/coderr/marketplace/internal/core/domain"
)

// Store holds every collection behind one lock so multi-record writes such as
// offer creation are atomic.
type Store struct {
	mu       sync.RWMutex
	seq      map[string]int64
	users    map[int64]*domain.User
	offers   map[int64]*domain.Offer
	packages map[int64]*domain.Package
	orders   map[int64]*domain.Order
	reviews  map[int64]*domain.Review
}

func NewStore() *Store {
	return &Store{
		seq:      make(map[string]int64),
		users:    make(map[int64]*domain.User),
		offers:   make(map[int64]*domain.Offer),
		packages: make(map[int64]*domain.Package),
		orders:   make(map[int64]*domain.Order),
		reviews:  make(map[int64]*domain.Review),
	}
}

// next returns the next ID of the named sequence. Callers hold the write lock.
func (s *Store) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	if u.File != nil {
		f := *u.File
		cp.File = &f
	}
	return &cp
}

func clonePackage(p *domain.Package) *domain.Package {
	cp := *p
	cp.Features = append([]string{}, p.Features...)
	return &cp
}

func cloneOffer(o *domain.Offer) *domain.Offer {
	cp := *o
	if o.Image != nil {
		img := *o.Image
		cp.Image = &img
	}
	cp.Packages = nil
	return &cp
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Package = nil
	return &cp
}

func cloneReview(r *domain.Review) *domain.Review {
	cp := *r
	return &cp
}
