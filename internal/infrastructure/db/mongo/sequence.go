package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sequence hands out integer IDs from the counters collection so documents
// keep the numeric identifiers the API exposes.
type sequence struct {
	col *mongo.Collection
}

func newSequence(db *mongo.Database) sequence {
	return sequence{col: db.Collection(collectionCounters)}
}

// reserve allocates n consecutive IDs of the named sequence and returns the
// first one.
func (s sequence) reserve(ctx context.Context, name string, n int64) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc struct {
		Value int64 `bson:"value"`
	}
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"value": n}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Value - n + 1, nil
}

func (s sequence) next(ctx context.Context, name string) (int64, error) {
	return s.reserve(ctx, name, 1)
}
