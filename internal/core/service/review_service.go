package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ReviewService struct {
	reviews ports.ReviewRepository
	users   ports.UserRepository
	log     zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, users ports.UserRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, users: users, log: log}
}

func (s *ReviewService) List(ctx context.Context, filter ports.ListReviewsFilter) ([]*domain.Review, error) {
	switch filter.Ordering {
	case ports.ReviewOrderUpdatedAsc, ports.ReviewOrderUpdatedDesc, ports.ReviewOrderRatingAsc, ports.ReviewOrderRatingDesc:
	default:
		filter.Ordering = ports.ReviewOrderCreatedDesc
	}
	reviews, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	return s.reviews.FindByID(ctx, id)
}

// Create stores the principal's review of a business user. A reviewer holds
// at most one review per business user.
func (s *ReviewService) Create(ctx context.Context, principal domain.Principal, in ports.CreateReviewInput) (*domain.Review, error) {
	if !domain.CanCreateReview(principal) {
		return nil, domain.ErrForbidden
	}

	v := domain.NewValidationError()
	if !domain.ValidRating(in.Rating) {
		v.Add("rating", fmt.Sprintf("Ensure this value is between %d and %d.", domain.MinRating, domain.MaxRating))
	}
	business, err := s.users.FindByID(ctx, in.BusinessUserID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		v.Add("business_user", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", in.BusinessUserID))
	case err != nil:
		return nil, fmt.Errorf("create review: %w", err)
	case business.Role != domain.RoleBusiness:
		v.Add("business_user", "The reviewed user must be a business user.")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &domain.Review{
		BusinessUserID: in.BusinessUserID,
		ReviewerID:     principal.UserID,
		Rating:         in.Rating,
		Description:    in.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrDuplicateReview) {
			return nil, domain.FieldError("non_field_errors", "You have already reviewed this business user.")
		}
		s.log.Error().Err(err).Int64("business_user", in.BusinessUserID).Msg("failed to create review")
		return nil, err
	}

	s.log.Info().Int64("review_id", review.ID).Int64("business_user", review.BusinessUserID).Int("rating", review.Rating).Msg("review created")
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, principal domain.Principal, id int64, in ports.UpdateReviewInput) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyReview(principal, review) {
		return nil, domain.ErrForbidden
	}
	if in.Rating != nil && !domain.ValidRating(*in.Rating) {
		return nil, domain.FieldError("rating", fmt.Sprintf("Ensure this value is between %d and %d.", domain.MinRating, domain.MaxRating))
	}

	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if in.Description != nil {
		review.Description = *in.Description
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info().Int64("review_id", id).Msg("review updated")
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModifyReview(principal, review) {
		return domain.ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info().Int64("review_id", id).Msg("review deleted")
	return nil
}
