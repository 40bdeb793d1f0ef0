package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type stubOfferService struct {
	createFn     func(ctx context.Context, p domain.Principal, in ports.CreateOfferInput) (*domain.Offer, error)
	getFn        func(ctx context.Context, id int64) (*domain.Offer, error)
	listFn       func(ctx context.Context, in ports.ListOffersInput) (*ports.OfferPage, error)
	updateFn     func(ctx context.Context, p domain.Principal, id int64, in ports.UpdateOfferInput) (*domain.Offer, error)
	deleteFn     func(ctx context.Context, p domain.Principal, id int64) error
	getPackageFn func(ctx context.Context, id int64) (*domain.Package, error)
}

func (s *stubOfferService) Create(ctx context.Context, p domain.Principal, in ports.CreateOfferInput) (*domain.Offer, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubOfferService) Get(ctx context.Context, id int64) (*domain.Offer, error) {
	return s.getFn(ctx, id)
}

func (s *stubOfferService) List(ctx context.Context, in ports.ListOffersInput) (*ports.OfferPage, error) {
	return s.listFn(ctx, in)
}

func (s *stubOfferService) Update(ctx context.Context, p domain.Principal, id int64, in ports.UpdateOfferInput) (*domain.Offer, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubOfferService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubOfferService) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	return s.getPackageFn(ctx, id)
}

func sampleOffer() *domain.Offer {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Offer{
		ID:          10,
		OwnerID:     1,
		Title:       "Logo design",
		Description: "Vector logos",
		CreatedAt:   now,
		UpdatedAt:   now,
		Packages: []domain.Package{
			{ID: 100, OfferID: 10, Title: "Basic", Revisions: 1, DeliveryTimeInDays: 3, Price: decimal.NewFromInt(50), Features: []string{"logo"}, Type: domain.PackageBasic},
			{ID: 101, OfferID: 10, Title: "Standard", Revisions: 3, DeliveryTimeInDays: 5, Price: decimal.NewFromInt(100), Features: []string{"logo"}, Type: domain.PackageStandard},
			{ID: 102, OfferID: 10, Title: "Premium", Revisions: -1, DeliveryTimeInDays: 7, Price: decimal.RequireFromString("199.5"), Features: []string{"logo"}, Type: domain.PackagePremium},
		},
	}
}

const createOfferBody = `{
	"title": "Logo design",
	"description": "Vector logos",
	"details": [
		{"title":"Basic","revisions":1,"delivery_time_in_days":3,"price":50,"features":["logo"],"offer_type":"basic"},
		{"title":"Standard","revisions":3,"delivery_time_in_days":5,"price":"100.00","features":["logo"],"offer_type":"standard"},
		{"title":"Premium","revisions":-1,"delivery_time_in_days":7,"price":199.5,"features":["logo"],"offer_type":"premium"}
	]
}`

func TestOfferHandler_Create_Success(t *testing.T) {
	stub := &stubOfferService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateOfferInput) (*domain.Offer, error) {
			if p.UserID != business.UserID {
				t.Fatalf("unexpected principal: %+v", p)
			}
			if len(in.Packages) != 3 || in.Packages[2].Type != domain.PackagePremium {
				t.Fatalf("unexpected packages: %+v", in.Packages)
			}
			if !in.Packages[1].Price.Equal(decimal.NewFromInt(100)) {
				t.Fatalf("expected price 100, got %s", in.Packages[1].Price)
			}
			return sampleOffer(), nil
		},
	}
	handler := NewOfferHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/offers", createOfferBody, business)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	var resp struct {
		ID      int64 `json:"id"`
		Details []struct {
			ID        int64    `json:"id"`
			Price     string   `json:"price"`
			Features  []string `json:"features"`
			OfferType string   `json:"offer_type"`
		} `json:"details"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Details) != 3 {
		t.Fatalf("expected full details, got %+v", resp.Details)
	}
	if resp.Details[0].Price != "50.00" || resp.Details[2].Price != "199.50" {
		t.Fatalf("unexpected prices: %+v", resp.Details)
	}
}

func TestOfferHandler_Create_MissingPackageField(t *testing.T) {
	stub := &stubOfferService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateOfferInput) (*domain.Offer, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewOfferHandler(stub)

	body := strings.Replace(createOfferBody, `"price":50,`, "", 1)
	c, _ := newContext(http.MethodPost, "/api/offers", body, business)

	expectValidationField(t, handler.Create(c), "details[0].price")
}

func TestOfferHandler_Get_RendersLinks(t *testing.T) {
	stub := &stubOfferService{
		getFn: func(ctx context.Context, id int64) (*domain.Offer, error) {
			if id != 10 {
				t.Fatalf("unexpected id %d", id)
			}
			return sampleOffer(), nil
		},
	}
	handler := NewOfferHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/offers/10", "", customer)
	if err := handler.Get(withParam(c, "id", "10")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	if _, ok := resp["user_details"]; ok {
		t.Fatalf("single read must omit user_details")
	}
	if resp["min_price"] != 50.0 || resp["min_delivery_time"] != 3.0 {
		t.Fatalf("unexpected computed fields: %v %v", resp["min_price"], resp["min_delivery_time"])
	}
	details := resp["details"].([]any)
	first := details[0].(map[string]any)
	if first["url"] != "/api/offerdetails/100/" {
		t.Fatalf("unexpected link: %v", first)
	}
	if _, ok := first["price"]; ok {
		t.Fatalf("links must not carry package bodies: %v", first)
	}
}

func TestOfferHandler_Get_InvalidID(t *testing.T) {
	handler := NewOfferHandler(&stubOfferService{})

	c, _ := newContext(http.MethodGet, "/api/offers/abc", "", customer)
	expectHTTPError(t, handler.Get(withParam(c, "id", "abc")), http.StatusNotFound)
}

func TestOfferHandler_List_Envelope(t *testing.T) {
	stub := &stubOfferService{
		listFn: func(ctx context.Context, in ports.ListOffersInput) (*ports.OfferPage, error) {
			if in.CreatorID == nil || *in.CreatorID != 1 || in.Search != "logo" || in.Page != 2 || in.PageSize != 1 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.OfferPage{
				Items:    []*domain.Offer{sampleOffer()},
				Owners:   map[int64]*domain.User{1: {ID: 1, Username: "alice", FirstName: "Alice"}},
				Total:    3,
				Page:     2,
				PageSize: 1,
			}, nil
		},
	}
	handler := NewOfferHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/offers?creator_id=1&search=logo&page=2&page_size=1", "", nil)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp struct {
		Count    int64   `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []struct {
			ID          int64 `json:"id"`
			UserDetails struct {
				Username  string `json:"username"`
				FirstName string `json:"first_name"`
			} `json:"user_details"`
		} `json:"results"`
	}
	decodeBody(t, rec, &resp)
	if resp.Count != 3 || len(resp.Results) != 1 {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if resp.Results[0].UserDetails.Username != "alice" {
		t.Fatalf("expected user_details, got %+v", resp.Results[0])
	}
	if resp.Next == nil || !strings.Contains(*resp.Next, "page=3") {
		t.Fatalf("unexpected next: %v", resp.Next)
	}
	if resp.Previous == nil || strings.Contains(*resp.Previous, "page=") {
		t.Fatalf("previous of page 2 should drop the page param: %v", resp.Previous)
	}
}

func TestOfferHandler_List_InvalidFilter(t *testing.T) {
	handler := NewOfferHandler(&stubOfferService{})

	c, _ := newContext(http.MethodGet, "/api/offers?min_price=cheap", "", nil)
	expectValidationField(t, handler.List(c), "min_price")
}

func TestOfferHandler_List_PageZero(t *testing.T) {
	handler := NewOfferHandler(&stubOfferService{})

	c, _ := newContext(http.MethodGet, "/api/offers?page=0", "", nil)
	if err := handler.List(c); !errors.Is(err, domain.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestOfferHandler_Update_PassesPatches(t *testing.T) {
	stub := &stubOfferService{
		updateFn: func(ctx context.Context, p domain.Principal, id int64, in ports.UpdateOfferInput) (*domain.Offer, error) {
			if in.Title == nil || *in.Title != "New title" {
				t.Fatalf("unexpected title: %v", in.Title)
			}
			if !in.ImageSet || in.Image != nil {
				t.Fatalf("expected explicit null image, got set=%v value=%v", in.ImageSet, in.Image)
			}
			if len(in.Packages) != 1 || in.Packages[0].Type != domain.PackageBasic || in.Packages[0].Price == nil {
				t.Fatalf("unexpected patches: %+v", in.Packages)
			}
			if in.Packages[0].Title != nil {
				t.Fatalf("absent title must stay nil")
			}
			return sampleOffer(), nil
		},
	}
	handler := NewOfferHandler(stub)

	body := `{"title":"New title","image":null,"details":[{"offer_type":"basic","price":75}]}`
	c, rec := newContext(http.MethodPatch, "/api/offers/10", body, business)
	if err := handler.Update(withParam(c, "id", "10")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
}

func TestOfferHandler_Update_PatchWithoutType(t *testing.T) {
	handler := NewOfferHandler(&stubOfferService{})

	c, _ := newContext(http.MethodPatch, "/api/offers/10", `{"details":[{"price":75}]}`, business)
	expectValidationField(t, handler.Update(withParam(c, "id", "10")), "details[0].offer_type")
}

func TestOfferHandler_Delete_Forbidden(t *testing.T) {
	stub := &stubOfferService{
		deleteFn: func(ctx context.Context, p domain.Principal, id int64) error {
			return domain.ErrForbidden
		},
	}
	handler := NewOfferHandler(stub)

	c, _ := newContext(http.MethodDelete, "/api/offers/10", "", customer)
	if err := handler.Delete(withParam(c, "id", "10")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestOfferHandler_GetPackage(t *testing.T) {
	stub := &stubOfferService{
		getPackageFn: func(ctx context.Context, id int64) (*domain.Package, error) {
			p := sampleOffer().Packages[2]
			return &p, nil
		},
	}
	handler := NewOfferHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/offerdetails/102", "", customer)
	if err := handler.GetPackage(withParam(c, "id", "102")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["price"] != "199.50" || resp["offer_type"] != "premium" || resp["revisions"] != -1.0 {
		t.Fatalf("unexpected package: %v", resp)
	}
}
