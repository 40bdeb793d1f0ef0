package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/core/domain"
)

type userModel struct {
	ID           int64   `gorm:"primaryKey"`
	Username     string  `gorm:"size:150;not null;uniqueIndex"`
	Email        string  `gorm:"size:254;not null"`
	PasswordHash string  `gorm:"not null"`
	FirstName    string  `gorm:"size:150;not null;default:''"`
	LastName     string  `gorm:"size:150;not null;default:''"`
	Role         string  `gorm:"type:varchar(20);not null;index"`
	IsStaff      bool    `gorm:"not null;default:false"`
	File         *string `gorm:"size:255"`
	Location     string  `gorm:"size:255;not null;default:''"`
	Tel          string  `gorm:"size:50;not null;default:''"`
	Description  string  `gorm:"type:text;not null;default:''"`
	WorkingHours string  `gorm:"size:50;not null;default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type offerModel struct {
	ID          int64          `gorm:"primaryKey"`
	OwnerID     int64          `gorm:"not null;index"`
	Owner       userModel      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title       string         `gorm:"size:255;not null"`
	Image       *string        `gorm:"size:255"`
	Description string         `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time      `gorm:"index"`
	UpdatedAt   time.Time      `gorm:"index"`
	Packages    []packageModel `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

func (offerModel) TableName() string { return "offers" }

// packageModel is unique per (offer_id, offer_type).
type packageModel struct {
	ID                 int64           `gorm:"primaryKey"`
	OfferID            int64           `gorm:"not null;uniqueIndex:idx_packages_offer_type"`
	Title              string          `gorm:"size:255;not null"`
	Revisions          int             `gorm:"not null"`
	DeliveryTimeInDays int             `gorm:"not null"`
	Price              decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Features           []string        `gorm:"serializer:json;type:jsonb;not null"`
	Type               string          `gorm:"column:offer_type;type:varchar(20);not null;uniqueIndex:idx_packages_offer_type"`
}

func (packageModel) TableName() string { return "packages" }

type orderModel struct {
	ID             int64        `gorm:"primaryKey"`
	CustomerUserID int64        `gorm:"not null;index"`
	Customer       userModel    `gorm:"foreignKey:CustomerUserID;constraint:OnDelete:CASCADE"`
	BusinessUserID int64        `gorm:"not null;index:idx_orders_business_status"`
	Business       userModel    `gorm:"foreignKey:BusinessUserID;constraint:OnDelete:CASCADE"`
	PackageID      int64        `gorm:"not null;index"`
	Package        packageModel `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	Status         string       `gorm:"type:varchar(20);not null;index:idx_orders_business_status"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (orderModel) TableName() string { return "orders" }

// reviewModel is unique per (business_user_id, reviewer_id).
type reviewModel struct {
	ID             int64     `gorm:"primaryKey"`
	BusinessUserID int64     `gorm:"not null;uniqueIndex:idx_reviews_business_reviewer"`
	Business       userModel `gorm:"foreignKey:BusinessUserID;constraint:OnDelete:CASCADE"`
	ReviewerID     int64     `gorm:"not null;uniqueIndex:idx_reviews_business_reviewer;index"`
	Reviewer       userModel `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE"`
	Rating         int       `gorm:"not null"`
	Description    string    `gorm:"type:text;not null;default:''"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (reviewModel) TableName() string { return "reviews" }

// --- Conversions ---

func toUserModel(u *domain.User) userModel {
	return userModel{
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

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Role:         domain.Role(m.Role),
		IsStaff:      m.IsStaff,
		File:         m.File,
		Location:     m.Location,
		Tel:          m.Tel,
		Description:  m.Description,
		WorkingHours: m.WorkingHours,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func toPackageModel(p domain.Package) packageModel {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return packageModel{
		ID:                 p.ID,
		OfferID:            p.OfferID,
		Title:              p.Title,
		Revisions:          p.Revisions,
		DeliveryTimeInDays: p.DeliveryTimeInDays,
		Price:              p.Price,
		Features:           features,
		Type:               string(p.Type),
	}
}

func (m packageModel) toDomain() domain.Package {
	return domain.Package{
		ID:                 m.ID,
		OfferID:            m.OfferID,
		Title:              m.Title,
		Revisions:          m.Revisions,
		DeliveryTimeInDays: m.DeliveryTimeInDays,
		Price:              m.Price,
		Features:           append([]string{}, m.Features...),
		Type:               domain.PackageType(m.Type),
	}
}

func (m offerModel) toDomain() *domain.Offer {
	o := &domain.Offer{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Image:       m.Image,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		Packages:    make([]domain.Package, 0, len(m.Packages)),
	}
	for _, p := range m.Packages {
		o.Packages = append(o.Packages, p.toDomain())
	}
	domain.SortPackages(o.Packages)
	return o
}

func toOrderModel(o *domain.Order) orderModel {
	return orderModel{
		ID:             o.ID,
		CustomerUserID: o.CustomerUserID,
		BusinessUserID: o.BusinessUserID,
		PackageID:      o.PackageID,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt.UTC(),
		UpdatedAt:      o.UpdatedAt.UTC(),
	}
}

func (m orderModel) toDomain() *domain.Order {
	return &domain.Order{
		ID:             m.ID,
		CustomerUserID: m.CustomerUserID,
		BusinessUserID: m.BusinessUserID,
		PackageID:      m.PackageID,
		Status:         domain.OrderStatus(m.Status),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func toReviewModel(r *domain.Review) reviewModel {
	return reviewModel{
		ID:             r.ID,
		BusinessUserID: r.BusinessUserID,
		ReviewerID:     r.ReviewerID,
		Rating:         r.Rating,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

func (m reviewModel) toDomain() *domain.Review {
	return &domain.Review{
		ID:             m.ID,
		BusinessUserID: m.BusinessUserID,
		ReviewerID:     m.ReviewerID,
		Rating:         m.Rating,
		Description:    m.Description,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}
