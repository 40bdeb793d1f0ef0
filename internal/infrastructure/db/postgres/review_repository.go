package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts the review. idx_reviews_business_reviewer rejects a second
// review of the same business user.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	m := toReviewModel(review)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	review.ID = m.ID
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ReviewRepository) List(ctx context.Context, f ports.ListReviewsFilter) ([]*domain.Review, error) {
	q := r.db.WithContext(ctx).Model(&reviewModel{})
	if f.BusinessUserID != nil {
		q = q.Where("business_user_id = ?", *f.BusinessUserID)
	}
	if f.ReviewerID != nil {
		q = q.Where("reviewer_id = ?", *f.ReviewerID)
	}

	var models []reviewModel
	if err := q.Order(reviewOrder(f.Ordering)).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	out := make([]*domain.Review, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func reviewOrder(ordering string) string {
	switch ordering {
	case ports.ReviewOrderRatingAsc:
		return "rating ASC, id DESC"
	case ports.ReviewOrderRatingDesc:
		return "rating DESC, id DESC"
	case ports.ReviewOrderUpdatedAsc:
		return "updated_at ASC, id DESC"
	case ports.ReviewOrderUpdatedDesc:
		return "updated_at DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	res := r.db.WithContext(ctx).Model(&reviewModel{ID: review.ID}).Updates(map[string]any{
		"rating":      review.Rating,
		"description": review.Description,
		"updated_at":  review.UpdatedAt.UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&reviewModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Stats(ctx context.Context) (int64, *float64, error) {
	var row struct {
		N   int64
		Avg sql.NullFloat64
	}
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Select("COUNT(*) AS n, AVG(rating)::float8 AS avg").
		Scan(&row).Error
	if err != nil {
		return 0, nil, fmt.Errorf("review stats: %w", err)
	}
	if row.N == 0 || !row.Avg.Valid {
		return 0, nil, nil
	}
	avg := row.Avg.Float64
	return row.N, &avg, nil
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)
