package handler

import (
	"fmt"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

// --- Request → Service input ---

func toCreateOfferInput(req createOfferRequest) ports.CreateOfferInput {
	packages := make([]ports.PackageInput, 0, len(req.Details))
	for _, d := range req.Details {
		packages = append(packages, ports.PackageInput{
			Title:              d.Title,
			Revisions:          *d.Revisions,
			DeliveryTimeInDays: *d.DeliveryTimeInDays,
			Price:              *d.Price,
			Features:           d.Features,
			Type:               domain.PackageType(d.OfferType),
		})
	}
	return ports.CreateOfferInput{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Packages:    packages,
	}
}

func toUpdateOfferInput(req updateOfferRequest) ports.UpdateOfferInput {
	patches := make([]domain.PackagePatch, 0, len(req.Details))
	for _, d := range req.Details {
		patches = append(patches, domain.PackagePatch{
			Type:               domain.PackageType(d.OfferType),
			Title:              d.Title,
			Revisions:          d.Revisions,
			DeliveryTimeInDays: d.DeliveryTimeInDays,
			Price:              d.Price,
			Features:           d.Features,
		})
	}
	return ports.UpdateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image.Value,
		ImageSet:    req.Image.Set,
		Packages:    patches,
	}
}

// --- Domain → HTTP response ---

func packageURL(id int64) string {
	return fmt.Sprintf("/api/offerdetails/%d/", id)
}

func toPackageResponse(p domain.Package) packageResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return packageResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Revisions:          p.Revisions,
		DeliveryTimeInDays: p.DeliveryTimeInDays,
		Price:              p.Price.StringFixed(2),
		Features:           features,
		OfferType:          string(p.Type),
	}
}

func toOfferDetailResponse(o *domain.Offer) offerDetailResponse {
	links := make([]packageLinkResponse, 0, len(o.Packages))
	for _, p := range o.Packages {
		links = append(links, packageLinkResponse{ID: p.ID, URL: packageURL(p.ID)})
	}

	var minPrice *float64
	if mp := o.MinPrice(); mp != nil {
		f := mp.InexactFloat64()
		minPrice = &f
	}

	return offerDetailResponse{
		ID:              o.ID,
		User:            o.OwnerID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		CreatedAt:       o.CreatedAt.UTC(),
		UpdatedAt:       o.UpdatedAt.UTC(),
		Details:         links,
		MinPrice:        minPrice,
		MinDeliveryTime: o.MinDeliveryTime(),
	}
}

func toOfferListItem(o *domain.Offer, owner *domain.User) offerListItemResponse {
	item := offerListItemResponse{offerDetailResponse: toOfferDetailResponse(o)}
	if owner != nil {
		item.UserDetails = userDetailsResponse{
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Username:  owner.Username,
		}
	}
	return item
}

func toOfferWriteResponse(o *domain.Offer) offerWriteResponse {
	details := make([]packageResponse, 0, len(o.Packages))
	for _, p := range o.Packages {
		details = append(details, toPackageResponse(p))
	}
	return offerWriteResponse{
		ID:          o.ID,
		Title:       o.Title,
		Image:       o.Image,
		Description: o.Description,
		Details:     details,
	}
}
