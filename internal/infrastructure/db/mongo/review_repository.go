package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ReviewRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews), seq: newSequence(db)}
}

// Create inserts the review. The (business_user_id, reviewer_id) index
// rejects a second review of the same business user.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collectionReviews)
	if err != nil {
		return err
	}
	review.ID = id

	if _, err := r.col.InsertOne(ctx, toReviewDoc(review)); err != nil {
		review.ID = 0
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reviewDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) List(ctx context.Context, f ports.ListReviewsFilter) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.BusinessUserID != nil {
		filter["business_user_id"] = *f.BusinessUserID
	}
	if f.ReviewerID != nil {
		filter["reviewer_id"] = *f.ReviewerID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(reviewSort(f.Ordering)))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]*domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func reviewSort(ordering string) bson.D {
	switch ordering {
	case ports.ReviewOrderRatingAsc:
		return bson.D{{Key: "rating", Value: 1}, {Key: "_id", Value: -1}}
	case ports.ReviewOrderRatingDesc:
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: -1}}
	case ports.ReviewOrderUpdatedAsc:
		return bson.D{{Key: "updated_at", Value: 1}, {Key: "_id", Value: -1}}
	case ports.ReviewOrderUpdatedDesc:
		return bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":      review.Rating,
		"description": review.Description,
		"updated_at":  review.UpdatedAt.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": review.ID}, update)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// Stats groups every review into a single count and mean.
func (r *ReviewRepository) Stats(ctx context.Context) (int64, *float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"n":   bson.M{"$sum": 1},
			"avg": bson.M{"$avg": "$rating"},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, nil, fmt.Errorf("review stats: %w", err)
	}

	var res []struct {
		N   int64   `bson:"n"`
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return 0, nil, fmt.Errorf("decode review stats: %w", err)
	}
	if len(res) == 0 || res[0].N == 0 {
		return 0, nil, nil
	}
	avg := res[0].Avg
	return res[0].N, &avg, nil
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)
