package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

// OfferRepository stores offers with their packages embedded. Package IDs
// come from their own sequence so orders can reference them directly.
type OfferRepository struct {
	client *mongo.Client
	col    *mongo.Collection
	orders *mongo.Collection
	seq    sequence
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{
		client: db.Client(),
		col:    db.Collection(collectionOffers),
		orders: db.Collection(collectionOrders),
		seq:    newSequence(db),
	}
}

// CreateWithPackages inserts the offer and its packages as one document.
func (r *OfferRepository) CreateWithPackages(ctx context.Context, offer *domain.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	offerID, err := r.seq.next(ctx, collectionOffers)
	if err != nil {
		return err
	}
	firstPackageID, err := r.seq.reserve(ctx, "packages", int64(len(offer.Packages)))
	if err != nil {
		return err
	}

	pkgs := make([]domain.Package, len(offer.Packages))
	for i, p := range offer.Packages {
		p.ID = firstPackageID + int64(i)
		p.OfferID = offerID
		pkgs[i] = p
	}
	docs, err := toPackageDocs(pkgs)
	if err != nil {
		return err
	}

	doc := offerDoc{
		ID:          offerID,
		OwnerID:     offer.OwnerID,
		Title:       offer.Title,
		Image:       offer.Image,
		Description: offer.Description,
		CreatedAt:   offer.CreatedAt.UTC(),
		UpdatedAt:   offer.UpdatedAt.UTC(),
		Packages:    docs,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	offer.ID = offerID
	offer.Packages = pkgs
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id int64) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc offerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return doc.toDomain(), nil
}

// List runs one aggregation: filter, compute min_price, sort, then facet the
// total count and the requested page.
func (r *OfferRepository) List(ctx context.Context, f ports.ListOffersFilter) ([]*domain.Offer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match, err := offerMatch(f)
	if err != nil {
		return nil, 0, err
	}

	page := bson.A{bson.M{"$skip": int64(f.Offset)}}
	if f.Limit > 0 {
		page = append(page, bson.M{"$limit": int64(f.Limit)})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"min_price":   bson.M{"$min": "$packages.price"},
			"no_packages": bson.M{"$eq": bson.A{bson.M{"$size": bson.M{"$ifNull": bson.A{"$packages", bson.A{}}}}, 0}},
		}}},
		{{Key: "$sort", Value: offerSort(f.Ordering)}},
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "n"}},
			"items": page,
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}

	var res []struct {
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
		Items []offerDoc `bson:"items"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return nil, 0, fmt.Errorf("decode offers: %w", err)
	}
	if len(res) == 0 {
		return []*domain.Offer{}, 0, nil
	}

	var total int64
	if len(res[0].Total) > 0 {
		total = res[0].Total[0].N
	}
	items := make([]*domain.Offer, 0, len(res[0].Items))
	for _, d := range res[0].Items {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

func offerMatch(f ports.ListOffersFilter) (bson.M, error) {
	match := bson.M{}
	if f.CreatorID != nil {
		match["owner_id"] = *f.CreatorID
	}
	if f.MinPrice != nil {
		price, err := toDecimal128(*f.MinPrice)
		if err != nil {
			return nil, err
		}
		match["packages.price"] = bson.M{"$gte": price}
	}
	if f.MaxDeliveryTime != nil {
		match["packages.delivery_time_in_days"] = bson.M{"$lte": *f.MaxDeliveryTime}
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		match["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	return match, nil
}

// offerSort mirrors the in-memory ordering: offers without packages last on
// price orderings, newest ID first on ties.
func offerSort(ordering string) bson.D {
	switch ordering {
	case ports.OfferOrderPriceAsc:
		return bson.D{{Key: "no_packages", Value: 1}, {Key: "min_price", Value: 1}, {Key: "_id", Value: -1}}
	case ports.OfferOrderPriceDesc:
		return bson.D{{Key: "no_packages", Value: 1}, {Key: "min_price", Value: -1}, {Key: "_id", Value: -1}}
	case ports.OfferOrderUpdatedAsc:
		return bson.D{{Key: "updated_at", Value: 1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// Update rewrites the offer fields and the embedded packages.
func (r *OfferRepository) Update(ctx context.Context, offer *domain.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := toPackageDocs(offer.Packages)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"title":       offer.Title,
		"image":       offer.Image,
		"description": offer.Description,
		"updated_at":  offer.UpdatedAt.UTC(),
		"packages":    docs,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": offer.ID}, update)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

// Delete removes the offer and the orders of its packages in one
// transaction. Transactions need a replica set deployment.
func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc offerDoc
		if err := r.col.FindOneAndDelete(sc, bson.M{"_id": id}).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrOfferNotFound
			}
			return nil, fmt.Errorf("delete offer: %w", err)
		}

		ids := make([]int64, 0, len(doc.Packages))
		for _, p := range doc.Packages {
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			return nil, nil
		}
		if _, err := r.orders.DeleteMany(sc, bson.M{"package_id": bson.M{"$in": ids}}); err != nil {
			return nil, fmt.Errorf("delete offer orders: %w", err)
		}
		return nil, nil
	})
	return err
}

func (r *OfferRepository) FindPackage(ctx context.Context, id int64) (*domain.Package, error) {
	pkgs, err := r.FindPackages(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p, ok := pkgs[id]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	return p, nil
}

func (r *OfferRepository) FindPackages(ctx context.Context, ids []int64) (map[int64]*domain.Package, error) {
	out := make(map[int64]*domain.Package, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"packages": 1})
	cur, err := r.col.Find(ctx, bson.M{"packages.id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find packages: %w", err)
	}
	var docs []offerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, d := range docs {
		for _, p := range d.Packages {
			if wanted[p.ID] {
				pkg := p.toDomain(d.ID)
				out[p.ID] = &pkg
			}
		}
	}
	return out, nil
}

func (r *OfferRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return n, nil
}

var _ ports.OfferRepository = (*OfferRepository)(nil)
