package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Shared fixtures over the in-memory store
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixture struct {
	users   *memory.UserRepository
	offers  *memory.OfferRepository
	orders  *memory.OrderRepository
	reviews *memory.ReviewRepository
	tokens  *memory.TokenStore
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		users:   memory.NewUserRepository(store),
		offers:  memory.NewOfferRepository(store),
		orders:  memory.NewOrderRepository(store),
		reviews: memory.NewReviewRepository(store),
		tokens:  memory.NewTokenStore(),
	}
}

func (f *fixture) seedUser(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{Username: username, Email: username + "@example.com", Role: role, CreatedAt: now, UpdatedAt: now}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func packageInputs(basic, standard, premium int64) []ports.PackageInput {
	return []ports.PackageInput{
		{Title: "Basic", Revisions: 1, DeliveryTimeInDays: 3, Price: decimal.NewFromInt(basic), Features: []string{"logo"}, Type: domain.PackageBasic},
		{Title: "Standard", Revisions: 3, DeliveryTimeInDays: 5, Price: decimal.NewFromInt(standard), Features: []string{"logo", "card"}, Type: domain.PackageStandard},
		{Title: "Premium", Revisions: domain.UnlimitedRevisions, DeliveryTimeInDays: 7, Price: decimal.NewFromInt(premium), Features: []string{"logo", "card", "flyer"}, Type: domain.PackagePremium},
	}
}

func (f *fixture) seedOffer(t *testing.T, owner *domain.User, title string, basic, standard, premium int64) *domain.Offer {
	t.Helper()
	svc := NewOfferService(f.offers, f.users, 0, 0, discardLogger)
	offer, err := svc.Create(context.Background(), owner.Principal(), ports.CreateOfferInput{
		Title:       title,
		Description: title + " description",
		Packages:    packageInputs(basic, standard, premium),
	})
	if err != nil {
		t.Fatalf("seed offer %s: %v", title, err)
	}
	return offer
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error on %q, got %v", field, err)
	}
	if !ve.Has(field) {
		t.Fatalf("expected validation error on %q, got %v", field, ve.Fields)
	}
}
