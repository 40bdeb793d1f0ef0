package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// ReviewOrdering values accepted by ReviewRepository.List.
const (
	ReviewOrderCreatedDesc = "-created_at"
	ReviewOrderUpdatedAsc  = "updated_at"
	ReviewOrderUpdatedDesc = "-updated_at"
	ReviewOrderRatingAsc   = "rating"
	ReviewOrderRatingDesc  = "-rating"
)

// ListReviewsFilter carries the optional filters of the review list.
type ListReviewsFilter struct {
	BusinessUserID *int64
	ReviewerID     *int64
	Ordering       string
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create assigns the review ID. A second review of the same business user
	// by the same reviewer yields domain.ErrDuplicateReview.
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	List(ctx context.Context, filter ListReviewsFilter) ([]*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
	// Stats returns the review count and the mean rating, nil when empty.
	Stats(ctx context.Context) (int64, *float64, error)
}
