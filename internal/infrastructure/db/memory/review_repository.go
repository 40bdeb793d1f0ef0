package memory

import (
	"context"
	"sort"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ReviewRepository struct {
	s *Store
}

func NewReviewRepository(s *Store) *ReviewRepository {
	return &ReviewRepository{s: s}
}

func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reviews {
		if existing.BusinessUserID == review.BusinessUserID && existing.ReviewerID == review.ReviewerID {
			return domain.ErrDuplicateReview
		}
	}
	review.ID = r.s.next("reviews")
	r.s.reviews[review.ID] = cloneReview(review)
	return nil
}

func (r *ReviewRepository) FindByID(_ context.Context, id int64) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return cloneReview(rv), nil
}

func (r *ReviewRepository) List(_ context.Context, f ports.ListReviewsFilter) ([]*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Review, 0)
	for _, rv := range r.s.reviews {
		if f.BusinessUserID != nil && rv.BusinessUserID != *f.BusinessUserID {
			continue
		}
		if f.ReviewerID != nil && rv.ReviewerID != *f.ReviewerID {
			continue
		}
		out = append(out, cloneReview(rv))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Ordering {
		case ports.ReviewOrderRatingAsc:
			if a.Rating != b.Rating {
				return a.Rating < b.Rating
			}
		case ports.ReviewOrderRatingDesc:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		case ports.ReviewOrderUpdatedAsc:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		case ports.ReviewOrderUpdatedDesc:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (r *ReviewRepository) Update(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[review.ID]; !ok {
		return domain.ErrReviewNotFound
	}
	r.s.reviews[review.ID] = cloneReview(review)
	return nil
}

func (r *ReviewRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *ReviewRepository) Stats(_ context.Context) (int64, *float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := int64(len(r.s.reviews))
	if n == 0 {
		return 0, nil, nil
	}
	var sum int
	for _, rv := range r.s.reviews {
		sum += rv.Rating
	}
	avg := float64(sum) / float64(n)
	return n, &avg, nil
}
