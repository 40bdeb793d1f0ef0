package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

const (
	DefaultOffersPageSize = 6
	MaxOffersPageSize     = 100
)

type OfferService struct {
	offers      ports.OfferRepository
	users       ports.UserRepository
	pageSize    int
	maxPageSize int
	log         zerolog.Logger
}

func NewOfferService(offers ports.OfferRepository, users ports.UserRepository, pageSize, maxPageSize int, log zerolog.Logger) *OfferService {
	if pageSize <= 0 {
		pageSize = DefaultOffersPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = MaxOffersPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return &OfferService{offers: offers, users: users, pageSize: pageSize, maxPageSize: maxPageSize, log: log}
}

// Create validates the package set and stores the offer together with its
// packages as one unit.
func (s *OfferService) Create(ctx context.Context, principal domain.Principal, in ports.CreateOfferInput) (*domain.Offer, error) {
	if !domain.CanCreateOffer(principal) {
		return nil, domain.ErrForbidden
	}

	v := domain.NewValidationError()
	if strings.TrimSpace(in.Title) == "" {
		v.Add("title", msgRequired)
	}

	types := make([]domain.PackageType, 0, len(in.Packages))
	packages := make([]domain.Package, 0, len(in.Packages))
	for i, pi := range in.Packages {
		types = append(types, pi.Type)
		p := domain.Package{
			Title:              strings.TrimSpace(pi.Title),
			Revisions:          pi.Revisions,
			DeliveryTimeInDays: pi.DeliveryTimeInDays,
			Price:              pi.Price,
			Features:           pi.Features,
			Type:               pi.Type,
		}
		field := fmt.Sprintf("details[%d]", i)
		if p.Title == "" {
			v.Add(field+".title", msgRequired)
		}
		domain.ValidatePackageValues(field, p, v)
		packages = append(packages, p)
	}
	domain.ValidatePackageSet(types, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		OwnerID:     principal.UserID,
		Title:       strings.TrimSpace(in.Title),
		Image:       in.Image,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Packages:    packages,
	}
	if err := s.offers.CreateWithPackages(ctx, offer); err != nil {
		s.log.Error().Err(err).Int64("owner_id", principal.UserID).Msg("failed to create offer")
		return nil, err
	}

	s.log.Info().Int64("offer_id", offer.ID).Int64("owner_id", offer.OwnerID).Msg("offer created")
	return offer, nil
}

func (s *OfferService) Get(ctx context.Context, id int64) (*domain.Offer, error) {
	return s.offers.FindByID(ctx, id)
}

// List returns one page of offers. Page 1 is always valid; any later page
// without results yields domain.ErrPageNotFound.
func (s *OfferService) List(ctx context.Context, in ports.ListOffersInput) (*ports.OfferPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size <= 0 {
		size = s.pageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	if page > (math.MaxInt-1)/size+1 {
		return nil, domain.ErrPageNotFound
	}

	ordering := in.Ordering
	switch ordering {
	case ports.OfferOrderUpdatedAsc, ports.OfferOrderUpdatedDesc, ports.OfferOrderPriceAsc, ports.OfferOrderPriceDesc:
	default:
		ordering = ports.OfferOrderUpdatedDesc
	}

	items, total, err := s.offers.List(ctx, ports.ListOffersFilter{
		CreatorID:       in.CreatorID,
		MinPrice:        in.MinPrice,
		MaxDeliveryTime: in.MaxDeliveryTime,
		Search:          strings.TrimSpace(in.Search),
		Ordering:        ordering,
		Offset:          (page - 1) * size,
		Limit:           size,
	})
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	if page > 1 && len(items) == 0 {
		return nil, domain.ErrPageNotFound
	}

	ownerIDs := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, o := range items {
		if !seen[o.OwnerID] {
			seen[o.OwnerID] = true
			ownerIDs = append(ownerIDs, o.OwnerID)
		}
	}
	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("list offers: owners: %w", err)
	}

	return &ports.OfferPage{Items: items, Owners: owners, Total: total, Page: page, PageSize: size}, nil
}

// Update merges the offer fields and the package patches. A patch whose type
// matches no package of the offer is ignored.
func (s *OfferService) Update(ctx context.Context, principal domain.Principal, id int64, in ports.UpdateOfferInput) (*domain.Offer, error) {
	offer, err := s.offers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyOffer(principal, offer) {
		return nil, domain.ErrForbidden
	}

	v := domain.NewValidationError()
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		v.Add("title", msgBlank)
	}
	for i, patch := range in.Packages {
		field := fmt.Sprintf("details[%d]", i)
		if patch.Type == "" {
			v.Add(field+".offer_type", msgRequired)
			continue
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			v.Add(field+".title", msgBlank)
		}
		p := offer.Package(patch.Type)
		if p == nil {
			continue
		}
		merged := *p
		merged.Apply(patch)
		domain.ValidatePackageValues(field, merged, v)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if in.Title != nil {
		offer.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		offer.Description = *in.Description
	}
	if in.ImageSet {
		offer.Image = in.Image
	}
	for _, patch := range in.Packages {
		if p := offer.Package(patch.Type); p != nil {
			p.Apply(patch)
		}
	}
	offer.UpdatedAt = time.Now().UTC()

	if err := s.offers.Update(ctx, offer); err != nil {
		s.log.Error().Err(err).Int64("offer_id", id).Msg("failed to update offer")
		return nil, err
	}

	s.log.Info().Int64("offer_id", offer.ID).Msg("offer updated")
	return offer, nil
}

// Delete removes the offer together with its packages and their orders.
func (s *OfferService) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	offer, err := s.offers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModifyOffer(principal, offer) {
		return domain.ErrForbidden
	}
	if err := s.offers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	s.log.Info().Int64("offer_id", id).Msg("offer deleted")
	return nil
}

func (s *OfferService) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	return s.offers.FindPackage(ctx, id)
}
