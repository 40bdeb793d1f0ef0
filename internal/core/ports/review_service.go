package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// CreateReviewInput carries the data of a new review.
type CreateReviewInput struct {
	BusinessUserID int64
	Rating         int
	Description    string
}

// UpdateReviewInput is a partial review update.
type UpdateReviewInput struct {
	Rating      *int
	Description *string
}

type ReviewService interface {
	List(ctx context.Context, filter ListReviewsFilter) ([]*domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	Create(ctx context.Context, principal domain.Principal, input CreateReviewInput) (*domain.Review, error)
	Update(ctx context.Context, principal domain.Principal, id int64, input UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, principal domain.Principal, id int64) error
}

// StatsService computes the public platform aggregates.
type StatsService interface {
	Get(ctx context.Context) (*domain.PlatformStats, error)
}
