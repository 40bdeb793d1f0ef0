package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/core/domain"
)

type stubOrderService struct {
	listFn   func(ctx context.Context, p domain.Principal) ([]*domain.Order, error)
	createFn func(ctx context.Context, p domain.Principal, packageID int64) (*domain.Order, error)
	updateFn func(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error)
	deleteFn func(ctx context.Context, p domain.Principal, id int64) error
	countFn  func(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error)
}

func (s *stubOrderService) List(ctx context.Context, p domain.Principal) ([]*domain.Order, error) {
	return s.listFn(ctx, p)
}

func (s *stubOrderService) Create(ctx context.Context, p domain.Principal, packageID int64) (*domain.Order, error) {
	return s.createFn(ctx, p, packageID)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error) {
	return s.updateFn(ctx, p, id, status)
}

func (s *stubOrderService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubOrderService) CountForBusiness(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
	return s.countFn(ctx, businessUserID, status)
}

func sampleOrder(status domain.OrderStatus) *domain.Order {
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	return &domain.Order{
		ID:             5,
		CustomerUserID: customer.UserID,
		BusinessUserID: business.UserID,
		PackageID:      100,
		Package: &domain.Package{
			ID: 100, Title: "Basic", Revisions: 1, DeliveryTimeInDays: 3,
			Price: decimal.NewFromInt(50), Features: []string{"logo"}, Type: domain.PackageBasic,
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderHandler_Create_Success(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, p domain.Principal, packageID int64) (*domain.Order, error) {
			if packageID != 100 || p.UserID != customer.UserID {
				t.Fatalf("unexpected args: %+v %d", p, packageID)
			}
			return sampleOrder(domain.OrderInProgress), nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/orders", `{"offer_detail_id":100}`, customer)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["business_user"] != float64(business.UserID) || resp["customer_user"] != float64(customer.UserID) {
		t.Fatalf("unexpected parties: %v", resp)
	}
	if resp["title"] != "Basic" || resp["price"] != "50.00" || resp["offer_type"] != "basic" || resp["status"] != "in_progress" {
		t.Fatalf("package fields not flattened: %v", resp)
	}
}

func TestOrderHandler_Create_MissingPackage(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{})

	c, _ := newContext(http.MethodPost, "/api/orders", `{}`, customer)
	expectValidationField(t, handler.Create(c), "offer_detail_id")
}

func TestOrderHandler_Update_PassesRawStatus(t *testing.T) {
	stub := &stubOrderService{
		updateFn: func(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error) {
			if id != 5 || status != "completed" {
				t.Fatalf("unexpected args: %d %q", id, status)
			}
			return sampleOrder(domain.OrderCompleted), nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newContext(http.MethodPatch, "/api/orders/5", `{"status":"completed"}`, business)
	if err := handler.Update(withParam(c, "id", "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
}

func TestOrderHandler_Update_ServiceErrorsPassThrough(t *testing.T) {
	stub := &stubOrderService{
		updateFn: func(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newContext(http.MethodPatch, "/api/orders/99", `{"status":"completed"}`, business)
	if err := handler.Update(withParam(c, "id", "99")); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderHandler_Delete(t *testing.T) {
	called := false
	stub := &stubOrderService{
		deleteFn: func(ctx context.Context, p domain.Principal, id int64) error {
			called = true
			return nil
		},
	}
	handler := NewOrderHandler(stub)

	staff := &domain.Principal{UserID: 9, IsStaff: true, Role: domain.RoleCustomer}
	c, rec := newContext(http.MethodDelete, "/api/orders/5", "", staff)
	if err := handler.Delete(withParam(c, "id", "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusNoContent)
	if !called {
		t.Fatalf("expected service delete")
	}
}

func TestOrderHandler_Counts(t *testing.T) {
	stub := &stubOrderService{
		countFn: func(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
			if businessUserID != 1 {
				return 0, domain.ErrUserNotFound
			}
			if status == domain.OrderCompleted {
				return 4, nil
			}
			return 2, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/order-count/1", "", customer)
	if err := handler.OrderCount(withParam(c, "business_user_id", "1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var open map[string]int64
	decodeBody(t, rec, &open)
	if open["order_count"] != 2 {
		t.Fatalf("unexpected order_count: %v", open)
	}

	c, rec = newContext(http.MethodGet, "/api/completed-order-count/1", "", customer)
	if err := handler.CompletedOrderCount(withParam(c, "business_user_id", "1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var done map[string]int64
	decodeBody(t, rec, &done)
	if done["completed_order_count"] != 4 {
		t.Fatalf("unexpected completed_order_count: %v", done)
	}

	c, _ = newContext(http.MethodGet, "/api/order-count/2", "", customer)
	if err := handler.OrderCount(withParam(c, "business_user_id", "2")); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
