package domain

// Principal is the authenticated actor of a request. It is passed explicitly
// to every service operation that depends on who is asking.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
	IsStaff  bool
}

func (p Principal) IsBusiness() bool { return p.Role == RoleBusiness }
func (p Principal) IsCustomer() bool { return p.Role == RoleCustomer }

func CanUpdateProfile(p Principal, target *User) bool {
	return target != nil && p.UserID == target.ID
}

func CanCreateOffer(p Principal) bool {
	return p.IsBusiness()
}

// CanModifyOffer checks ownership only; the owner's current role is not
// re-validated after creation.
func CanModifyOffer(p Principal, o *Offer) bool {
	return o != nil && o.OwnerID == p.UserID
}

func CanCreateOrder(p Principal) bool {
	return p.IsCustomer()
}

func CanUpdateOrderStatus(p Principal, o *Order) bool {
	return o != nil && p.IsBusiness() && o.BusinessUserID == p.UserID
}

func CanDeleteOrder(p Principal) bool {
	return p.IsStaff
}

func CanCreateReview(p Principal) bool {
	return p.IsCustomer()
}

func CanModifyReview(p Principal, r *Review) bool {
	return r != nil && r.ReviewerID == p.UserID
}
