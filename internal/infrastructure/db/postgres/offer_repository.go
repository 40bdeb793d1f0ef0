package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

const minPriceExpr = "(SELECT MIN(p.price) FROM packages p WHERE p.offer_id = offers.id)"

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// CreateWithPackages inserts the offer and its packages in one transaction.
func (r *OfferRepository) CreateWithPackages(ctx context.Context, offer *domain.Offer) error {
	m := offerModel{
		OwnerID:     offer.OwnerID,
		Title:       offer.Title,
		Image:       offer.Image,
		Description: offer.Description,
		CreatedAt:   offer.CreatedAt.UTC(),
		UpdatedAt:   offer.UpdatedAt.UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return fmt.Errorf("insert offer: %w", err)
		}
		for _, p := range offer.Packages {
			pm := toPackageModel(p)
			pm.OfferID = m.ID
			if err := tx.Omit(clause.Associations).Create(&pm).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return domain.FieldError("details", fmt.Sprintf("Duplicate offer_type %q.", p.Type))
				}
				return fmt.Errorf("insert package: %w", err)
			}
			m.Packages = append(m.Packages, pm)
		}
		return nil
	})
	if err != nil {
		return err
	}

	created := m.toDomain()
	offer.ID = created.ID
	offer.Packages = created.Packages
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id int64) (*domain.Offer, error) {
	var m offerModel
	err := r.db.WithContext(ctx).Preload("Packages", orderByID).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return m.toDomain(), nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *OfferRepository) List(ctx context.Context, f ports.ListOffersFilter) ([]*domain.Offer, int64, error) {
	q := r.db.WithContext(ctx).Model(&offerModel{})
	if f.CreatorID != nil {
		q = q.Where("offers.owner_id = ?", *f.CreatorID)
	}
	if f.MinPrice != nil {
		q = q.Where("EXISTS (SELECT 1 FROM packages p WHERE p.offer_id = offers.id AND p.price >= ?)", *f.MinPrice)
	}
	if f.MaxDeliveryTime != nil {
		q = q.Where("EXISTS (SELECT 1 FROM packages p WHERE p.offer_id = offers.id AND p.delivery_time_in_days <= ?)", *f.MaxDeliveryTime)
	}
	if f.Search != "" {
		like := "%" + escapeLike(f.Search) + "%"
		q = q.Where("(offers.title ILIKE ? OR offers.description ILIKE ?)", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	page := q.Select("offers.*, "+minPriceExpr+" AS min_price").
		Order(offerOrder(f.Ordering)).
		Preload("Packages", orderByID).
		Offset(f.Offset)
	if f.Limit > 0 {
		page = page.Limit(f.Limit)
	}

	var models []offerModel
	if err := page.Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}

	out := make([]*domain.Offer, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, total, nil
}

// offerOrder sorts offers without packages last on price orderings and
// breaks ties by newest ID.
func offerOrder(ordering string) string {
	switch ordering {
	case ports.OfferOrderPriceAsc:
		return "min_price ASC NULLS LAST, offers.id DESC"
	case ports.OfferOrderPriceDesc:
		return "min_price DESC NULLS LAST, offers.id DESC"
	case ports.OfferOrderUpdatedAsc:
		return "offers.updated_at ASC, offers.id DESC"
	default:
		return "offers.updated_at DESC, offers.id DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update writes the offer columns and each carried package in one transaction.
func (r *OfferRepository) Update(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&offerModel{ID: offer.ID}).Updates(map[string]any{
			"title":       offer.Title,
			"image":       offer.Image,
			"description": offer.Description,
			"updated_at":  offer.UpdatedAt.UTC(),
		})
		if res.Error != nil {
			return fmt.Errorf("update offer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrOfferNotFound
		}

		for _, p := range offer.Packages {
			pm := toPackageModel(p)
			err := tx.Model(&packageModel{ID: p.ID}).
				Where("offer_id = ?", offer.ID).
				Select("title", "revisions", "delivery_time_in_days", "price", "features").
				Updates(&pm).Error
			if err != nil {
				return fmt.Errorf("update package: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the offer. Packages and their orders go with it through
// ON DELETE CASCADE.
func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&offerModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) FindPackage(ctx context.Context, id int64) (*domain.Package, error) {
	var m packageModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("find package: %w", err)
	}
	p := m.toDomain()
	return &p, nil
}

func (r *OfferRepository) FindPackages(ctx context.Context, ids []int64) (map[int64]*domain.Package, error) {
	out := make(map[int64]*domain.Package, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []packageModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find packages: %w", err)
	}
	for _, m := range models {
		p := m.toDomain()
		out[m.ID] = &p
	}
	return out, nil
}

func (r *OfferRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&offerModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return n, nil
}

var _ ports.OfferRepository = (*OfferRepository)(nil)
