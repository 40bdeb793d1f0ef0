package domain

import "testing"

func TestPolicy_Offers(t *testing.T) {
	business := Principal{UserID: 1, Role: RoleBusiness}
	customer := Principal{UserID: 2, Role: RoleCustomer}
	offer := &Offer{ID: 10, OwnerID: 1}

	if !CanCreateOffer(business) {
		t.Fatalf("business user must be able to create offers")
	}
	if CanCreateOffer(customer) {
		t.Fatalf("customer must not create offers")
	}
	if !CanModifyOffer(business, offer) {
		t.Fatalf("owner must be able to modify the offer")
	}
	if CanModifyOffer(customer, offer) {
		t.Fatalf("non-owner must not modify the offer")
	}
}

func TestPolicy_OfferOwnerDowngradedKeepsOwnership(t *testing.T) {
	downgraded := Principal{UserID: 1, Role: RoleCustomer}
	if !CanModifyOffer(downgraded, &Offer{OwnerID: 1}) {
		t.Fatalf("ownership is not re-validated against the current role")
	}
}

func TestPolicy_Orders(t *testing.T) {
	business := Principal{UserID: 1, Role: RoleBusiness}
	otherBusiness := Principal{UserID: 3, Role: RoleBusiness}
	customer := Principal{UserID: 2, Role: RoleCustomer}
	staff := Principal{UserID: 9, Role: RoleCustomer, IsStaff: true}
	order := &Order{ID: 5, CustomerUserID: 2, BusinessUserID: 1}

	if !CanCreateOrder(customer) || CanCreateOrder(business) {
		t.Fatalf("only customers create orders")
	}
	if !CanUpdateOrderStatus(business, order) {
		t.Fatalf("business user of the order must update its status")
	}
	if CanUpdateOrderStatus(otherBusiness, order) {
		t.Fatalf("other business users must not update the order")
	}
	if CanUpdateOrderStatus(customer, order) {
		t.Fatalf("customer must not update order status")
	}
	if CanDeleteOrder(business) || !CanDeleteOrder(staff) {
		t.Fatalf("only staff deletes orders")
	}
}

func TestPolicy_ReviewsAndProfiles(t *testing.T) {
	customer := Principal{UserID: 2, Role: RoleCustomer}
	other := Principal{UserID: 4, Role: RoleCustomer}
	review := &Review{ID: 1, ReviewerID: 2, BusinessUserID: 1}

	if !CanCreateReview(customer) || CanCreateReview(Principal{Role: RoleBusiness}) {
		t.Fatalf("only customers create reviews")
	}
	if !CanModifyReview(customer, review) || CanModifyReview(other, review) {
		t.Fatalf("only the reviewer modifies a review")
	}
	if !CanUpdateProfile(customer, &User{ID: 2}) || CanUpdateProfile(other, &User{ID: 2}) {
		t.Fatalf("only the owner updates a profile")
	}
}
