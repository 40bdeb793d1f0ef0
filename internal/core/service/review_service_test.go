package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

func TestReviewService_Create_OnePerBusiness(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	svc := NewReviewService(f.reviews, f.users, discardLogger)
	ctx := context.Background()

	first, err := svc.Create(ctx, customer.Principal(), ports.CreateReviewInput{BusinessUserID: business.ID, Rating: 5, Description: "great"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.ReviewerID != customer.ID || first.BusinessUserID != business.ID {
		t.Fatalf("unexpected review: %+v", first)
	}

	_, err = svc.Create(ctx, customer.Principal(), ports.CreateReviewInput{BusinessUserID: business.ID, Rating: 1, Description: "again"})
	assertField(t, err, "non_field_errors")

	stored, _ := svc.Get(ctx, first.ID)
	if stored.Rating != 5 || stored.Description != "great" {
		t.Fatalf("first review must be unaffected, got %+v", stored)
	}
}

func TestReviewService_Create_Rejections(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	svc := NewReviewService(f.reviews, f.users, discardLogger)
	ctx := context.Background()

	if _, err := svc.Create(ctx, business.Principal(), ports.CreateReviewInput{BusinessUserID: business.ID, Rating: 5}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for business reviewer, got %v", err)
	}

	_, err := svc.Create(ctx, customer.Principal(), ports.CreateReviewInput{BusinessUserID: business.ID, Rating: 6})
	assertField(t, err, "rating")

	_, err = svc.Create(ctx, customer.Principal(), ports.CreateReviewInput{BusinessUserID: 999, Rating: 4})
	assertField(t, err, "business_user")

	_, err = svc.Create(ctx, customer.Principal(), ports.CreateReviewInput{BusinessUserID: customer.ID, Rating: 4})
	assertField(t, err, "business_user")
}

func TestReviewService_UpdateDelete_ReviewerOnly(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	other := f.seedUser(t, "other", domain.RoleCustomer)
	svc := NewReviewService(f.reviews, f.users, discardLogger)
	ctx := context.Background()
	review, _ := svc.Create(ctx, customer.Principal(), ports.CreateReviewInput{BusinessUserID: business.ID, Rating: 4, Description: "ok"})

	rating := 2
	if _, err := svc.Update(ctx, other.Principal(), review.ID, ports.UpdateReviewInput{Rating: &rating}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	bad := 0
	_, err := svc.Update(ctx, customer.Principal(), review.ID, ports.UpdateReviewInput{Rating: &bad})
	assertField(t, err, "rating")

	desc := "changed my mind"
	updated, err := svc.Update(ctx, customer.Principal(), review.ID, ports.UpdateReviewInput{Rating: &rating, Description: &desc})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Rating != 2 || updated.Description != desc || updated.BusinessUserID != business.ID {
		t.Fatalf("unexpected review: %+v", updated)
	}

	if err := svc.Delete(ctx, other.Principal(), review.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if err := svc.Delete(ctx, customer.Principal(), review.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, review.ID); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReviewService_List_FiltersAndOrdering(t *testing.T) {
	f := newFixture()
	a := f.seedUser(t, "studio-a", domain.RoleBusiness)
	b := f.seedUser(t, "studio-b", domain.RoleBusiness)
	c1 := f.seedUser(t, "buyer-1", domain.RoleCustomer)
	c2 := f.seedUser(t, "buyer-2", domain.RoleCustomer)
	svc := NewReviewService(f.reviews, f.users, discardLogger)
	ctx := context.Background()
	_, _ = svc.Create(ctx, c1.Principal(), ports.CreateReviewInput{BusinessUserID: a.ID, Rating: 3})
	_, _ = svc.Create(ctx, c2.Principal(), ports.CreateReviewInput{BusinessUserID: a.ID, Rating: 5})
	_, _ = svc.Create(ctx, c1.Principal(), ports.CreateReviewInput{BusinessUserID: b.ID, Rating: 4})

	byBusiness, _ := svc.List(ctx, ports.ListReviewsFilter{BusinessUserID: &a.ID, Ordering: ports.ReviewOrderRatingDesc})
	if len(byBusiness) != 2 || byBusiness[0].Rating != 5 {
		t.Fatalf("unexpected business reviews: %+v", byBusiness)
	}
	byReviewer, _ := svc.List(ctx, ports.ListReviewsFilter{ReviewerID: &c1.ID})
	if len(byReviewer) != 2 {
		t.Fatalf("expected 2 reviews by reviewer, got %d", len(byReviewer))
	}
	all, _ := svc.List(ctx, ports.ListReviewsFilter{Ordering: "bogus"})
	if len(all) != 3 || all[0].BusinessUserID != b.ID {
		t.Fatalf("expected newest first on unknown ordering, got %+v", all)
	}
}

func TestStatsService_Get(t *testing.T) {
	f := newFixture()
	svc := NewStatsService(f.reviews, f.users, f.offers)
	ctx := context.Background()

	empty, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if empty.AverageRating != nil || empty.ReviewCount != 0 {
		t.Fatalf("expected nil average with no reviews, got %+v", empty)
	}

	a := f.seedUser(t, "studio-a", domain.RoleBusiness)
	f.seedUser(t, "studio-b", domain.RoleBusiness)
	c1 := f.seedUser(t, "buyer-1", domain.RoleCustomer)
	c2 := f.seedUser(t, "buyer-2", domain.RoleCustomer)
	f.seedOffer(t, a, "Logo design", 50, 100, 200)
	reviews := NewReviewService(f.reviews, f.users, discardLogger)
	_, _ = reviews.Create(ctx, c1.Principal(), ports.CreateReviewInput{BusinessUserID: a.ID, Rating: 5})
	_, _ = reviews.Create(ctx, c2.Principal(), ports.CreateReviewInput{BusinessUserID: a.ID, Rating: 4})

	stats, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.ReviewCount != 2 || stats.BusinessProfileCount != 2 || stats.OfferCount != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.AverageRating == nil || *stats.AverageRating != 4.5 {
		t.Fatalf("expected average 4.5, got %v", stats.AverageRating)
	}
}

func TestStatsService_Get_RoundsHalfToEven(t *testing.T) {
	f := newFixture()
	svc := NewStatsService(f.reviews, f.users, f.offers)
	ctx := context.Background()

	a := f.seedUser(t, "studio", domain.RoleBusiness)
	b := f.seedUser(t, "agency", domain.RoleBusiness)
	c1 := f.seedUser(t, "buyer-1", domain.RoleCustomer)
	c2 := f.seedUser(t, "buyer-2", domain.RoleCustomer)
	reviews := NewReviewService(f.reviews, f.users, discardLogger)

	for _, in := range []struct {
		reviewer *domain.User
		business *domain.User
		rating   int
	}{{c1, a, 5}, {c2, a, 5}, {c1, b, 4}, {c2, b, 3}} {
		if _, err := reviews.Create(ctx, in.reviewer.Principal(), ports.CreateReviewInput{BusinessUserID: in.business.ID, Rating: in.rating}); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	stats, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.AverageRating == nil || *stats.AverageRating != 4.2 {
		t.Fatalf("expected average 4.2 for a mean of 4.25, got %v", stats.AverageRating)
	}
}
