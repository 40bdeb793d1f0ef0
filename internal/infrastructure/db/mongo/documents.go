package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderr/marketplace/internal/core/domain"
)

type userDoc struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Role         string    `bson:"role"`
	IsStaff      bool      `bson:"is_staff"`
	File         *string   `bson:"file"`
	Location     string    `bson:"location"`
	Tel          string    `bson:"tel"`
	Description  string    `bson:"description"`
	WorkingHours string    `bson:"working_hours"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         string(u.Role),
		IsStaff:      u.IsStaff,
		File:         u.File,
		Location:     u.Location,
		Tel:          u.Tel,
		Description:  u.Description,
		WorkingHours: u.WorkingHours,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Role:         domain.Role(d.Role),
		IsStaff:      d.IsStaff,
		File:         d.File,
		Location:     d.Location,
		Tel:          d.Tel,
		Description:  d.Description,
		WorkingHours: d.WorkingHours,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// packageDoc is embedded in its offer document, so an offer and its packages
// are written in one atomic operation.
type packageDoc struct {
	ID                 int64                `bson:"id"`
	Title              string               `bson:"title"`
	Revisions          int                  `bson:"revisions"`
	DeliveryTimeInDays int                  `bson:"delivery_time_in_days"`
	Price              primitive.Decimal128 `bson:"price"`
	Features           []string             `bson:"features"`
	Type               string               `bson:"offer_type"`
}

type offerDoc struct {
	ID          int64        `bson:"_id"`
	OwnerID     int64        `bson:"owner_id"`
	Title       string       `bson:"title"`
	Image       *string      `bson:"image"`
	Description string       `bson:"description"`
	CreatedAt   time.Time    `bson:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at"`
	Packages    []packageDoc `bson:"packages"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("price %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toPackageDoc(p domain.Package) (packageDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return packageDoc{}, err
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return packageDoc{
		ID:                 p.ID,
		Title:              p.Title,
		Revisions:          p.Revisions,
		DeliveryTimeInDays: p.DeliveryTimeInDays,
		Price:              price,
		Features:           features,
		Type:               string(p.Type),
	}, nil
}

func (d packageDoc) toDomain(offerID int64) domain.Package {
	return domain.Package{
		ID:                 d.ID,
		OfferID:            offerID,
		Title:              d.Title,
		Revisions:          d.Revisions,
		DeliveryTimeInDays: d.DeliveryTimeInDays,
		Price:              fromDecimal128(d.Price),
		Features:           append([]string{}, d.Features...),
		Type:               domain.PackageType(d.Type),
	}
}

func toPackageDocs(pkgs []domain.Package) ([]packageDoc, error) {
	out := make([]packageDoc, 0, len(pkgs))
	for _, p := range pkgs {
		doc, err := toPackageDoc(p)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (d offerDoc) toDomain() *domain.Offer {
	o := &domain.Offer{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Image:       d.Image,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
		Packages:    make([]domain.Package, 0, len(d.Packages)),
	}
	for _, p := range d.Packages {
		o.Packages = append(o.Packages, p.toDomain(d.ID))
	}
	domain.SortPackages(o.Packages)
	return o
}

type orderDoc struct {
	ID             int64     `bson:"_id"`
	CustomerUserID int64     `bson:"customer_user_id"`
	BusinessUserID int64     `bson:"business_user_id"`
	PackageID      int64     `bson:"package_id"`
	Status         string    `bson:"status"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toOrderDoc(o *domain.Order) orderDoc {
	return orderDoc{
		ID:             o.ID,
		CustomerUserID: o.CustomerUserID,
		BusinessUserID: o.BusinessUserID,
		PackageID:      o.PackageID,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt.UTC(),
		UpdatedAt:      o.UpdatedAt.UTC(),
	}
}

func (d orderDoc) toDomain() *domain.Order {
	return &domain.Order{
		ID:             d.ID,
		CustomerUserID: d.CustomerUserID,
		BusinessUserID: d.BusinessUserID,
		PackageID:      d.PackageID,
		Status:         domain.OrderStatus(d.Status),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

type reviewDoc struct {
	ID             int64     `bson:"_id"`
	BusinessUserID int64     `bson:"business_user_id"`
	ReviewerID     int64     `bson:"reviewer_id"`
	Rating         int       `bson:"rating"`
	Description    string    `bson:"description"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toReviewDoc(r *domain.Review) reviewDoc {
	return reviewDoc{
		ID:             r.ID,
		BusinessUserID: r.BusinessUserID,
		ReviewerID:     r.ReviewerID,
		Rating:         r.Rating,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

func (d reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:             d.ID,
		BusinessUserID: d.BusinessUserID,
		ReviewerID:     d.ReviewerID,
		Rating:         d.Rating,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}
