package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/core/domain"
)

func TestOrderService_Create_DerivesBusinessUser(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	offer := f.seedOffer(t, business, "Logo design", 50, 100, 200)
	svc := NewOrderService(f.orders, f.offers, f.users, discardLogger)

	order, err := svc.Create(context.Background(), customer.Principal(), offer.Package(domain.PackageBasic).ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.BusinessUserID != business.ID || order.CustomerUserID != customer.ID {
		t.Fatalf("unexpected parties: %+v", order)
	}
	if order.Status != domain.OrderInProgress {
		t.Fatalf("expected in_progress, got %s", order.Status)
	}
	if order.Package == nil || !order.Package.Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected package to be attached, got %+v", order.Package)
	}
}

func TestOrderService_Create_Rejections(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	offer := f.seedOffer(t, business, "Logo design", 50, 100, 200)
	svc := NewOrderService(f.orders, f.offers, f.users, discardLogger)

	if _, err := svc.Create(context.Background(), business.Principal(), offer.Packages[0].ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for business user, got %v", err)
	}
	_, err := svc.Create(context.Background(), customer.Principal(), 9999)
	assertField(t, err, "offer_detail_id")
}

func TestOrderService_ReadsPackageLive(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	offer := f.seedOffer(t, business, "Logo design", 50, 100, 200)
	svc := NewOrderService(f.orders, f.offers, f.users, discardLogger)
	if _, err := svc.Create(context.Background(), customer.Principal(), offer.Package(domain.PackageBasic).ID); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	offer.Package(domain.PackageBasic).Price = decimal.NewFromInt(65)
	if err := f.offers.Update(context.Background(), offer); err != nil {
		t.Fatalf("update offer: %v", err)
	}

	orders, err := svc.List(context.Background(), customer.Principal())
	if err != nil || len(orders) != 1 {
		t.Fatalf("unexpected list: %v, %v", orders, err)
	}
	if !orders[0].Package.Price.Equal(decimal.NewFromInt(65)) {
		t.Fatalf("order must read the package live, got price %s", orders[0].Package.Price)
	}
}

func TestOrderService_List_ScopedToPrincipal(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	stranger := f.seedUser(t, "stranger", domain.RoleCustomer)
	offer := f.seedOffer(t, business, "Logo design", 50, 100, 200)
	svc := NewOrderService(f.orders, f.offers, f.users, discardLogger)
	_, _ = svc.Create(context.Background(), customer.Principal(), offer.Packages[0].ID)

	for _, tc := range []struct {
		who  *domain.User
		want int
	}{{customer, 1}, {business, 1}, {stranger, 0}} {
		orders, err := svc.List(context.Background(), tc.who.Principal())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(orders) != tc.want {
			t.Errorf("%s: expected %d orders, got %d", tc.who.Username, tc.want, len(orders))
		}
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	rival := f.seedUser(t, "rival", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	offer := f.seedOffer(t, business, "Logo design", 50, 100, 200)
	svc := NewOrderService(f.orders, f.offers, f.users, discardLogger)
	order, _ := svc.Create(context.Background(), customer.Principal(), offer.Packages[0].ID)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, business.Principal(), 999, "completed"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, customer.Principal(), order.ID, "completed"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for customer, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, rival.Principal(), order.ID, "completed"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other business, got %v", err)
	}
	_, err := svc.UpdateStatus(ctx, business.Principal(), order.ID, "shipped")
	assertField(t, err, "status")

	updated, err := svc.UpdateStatus(ctx, business.Principal(), order.ID, "completed")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.OrderCompleted || updated.Package == nil {
		t.Fatalf("unexpected order: %+v", updated)
	}

	stored, _ := f.orders.FindByID(ctx, order.ID)
	if stored.Status != domain.OrderCompleted {
		t.Fatalf("status not persisted: %s", stored.Status)
	}
}

func TestOrderService_Delete_StaffOnly(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	offer := f.seedOffer(t, business, "Logo design", 50, 100, 200)
	svc := NewOrderService(f.orders, f.offers, f.users, discardLogger)
	order, _ := svc.Create(context.Background(), customer.Principal(), offer.Packages[0].ID)
	staff := domain.Principal{UserID: 99, Role: domain.RoleCustomer, IsStaff: true}

	if err := svc.Delete(context.Background(), business.Principal(), 12345); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-staff must be forbidden before lookup, got %v", err)
	}
	if err := svc.Delete(context.Background(), staff, 12345); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), staff, order.ID); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}
	orders, _ := svc.List(context.Background(), customer.Principal())
	if len(orders) != 0 {
		t.Fatalf("deleted order still listed")
	}
}

func TestOrderService_CountForBusiness(t *testing.T) {
	f := newFixture()
	business := f.seedUser(t, "studio", domain.RoleBusiness)
	customer := f.seedUser(t, "buyer", domain.RoleCustomer)
	offer := f.seedOffer(t, business, "Logo design", 50, 100, 200)
	svc := NewOrderService(f.orders, f.offers, f.users, discardLogger)
	ctx := context.Background()
	first, _ := svc.Create(ctx, customer.Principal(), offer.Packages[0].ID)
	_, _ = svc.Create(ctx, customer.Principal(), offer.Packages[1].ID)
	_, _ = svc.UpdateStatus(ctx, business.Principal(), first.ID, "completed")

	inProgress, err := svc.CountForBusiness(ctx, business.ID, domain.OrderInProgress)
	if err != nil || inProgress != 1 {
		t.Fatalf("expected 1 in-progress order, got %d (%v)", inProgress, err)
	}
	completed, _ := svc.CountForBusiness(ctx, business.ID, domain.OrderCompleted)
	if completed != 1 {
		t.Fatalf("expected 1 completed order, got %d", completed)
	}

	if _, err := svc.CountForBusiness(ctx, customer.ID, domain.OrderInProgress); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("customer id must be not found, got %v", err)
	}
	if _, err := svc.CountForBusiness(ctx, 999, domain.OrderInProgress); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("unknown id must be not found, got %v", err)
	}
}
