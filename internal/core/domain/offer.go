package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PackageType is the tier of an offer package.
type PackageType string

const (
	PackageBasic    PackageType = "basic"
	PackageStandard PackageType = "standard"
	PackagePremium  PackageType = "premium"
)

// RequiredPackageTypes lists the tiers every offer carries exactly once.
var RequiredPackageTypes = []PackageType{PackageBasic, PackageStandard, PackagePremium}

func (t PackageType) Valid() bool {
	for _, r := range RequiredPackageTypes {
		if t == r {
			return true
		}
	}
	return false
}

// UnlimitedRevisions is the sentinel revisions value clients use for "no limit".
const UnlimitedRevisions = -1

// Package is one priced tier of an Offer (an "offer detail").
type Package struct {
	ID                 int64
	OfferID            int64
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              decimal.Decimal
	Features           []string
	Type               PackageType
}

// PackagePatch is a partial update addressed by package type. Nil fields are
// left untouched.
type PackagePatch struct {
	Type               PackageType
	Title              *string
	Revisions          *int
	DeliveryTimeInDays *int
	Price              *decimal.Decimal
	Features           *[]string
}

// Apply merges the non-nil fields of patch into p.
func (p *Package) Apply(patch PackagePatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Revisions != nil {
		p.Revisions = *patch.Revisions
	}
	if patch.DeliveryTimeInDays != nil {
		p.DeliveryTimeInDays = *patch.DeliveryTimeInDays
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Features != nil {
		p.Features = append([]string(nil), (*patch.Features)...)
	}
}

// Offer is a service listing owned by a business user.
type Offer struct {
	ID          int64
	OwnerID     int64
	Title       string
	Image       *string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Packages    []Package
}

// Package returns the package of the given tier, or nil.
func (o *Offer) Package(t PackageType) *Package {
	for i := range o.Packages {
		if o.Packages[i].Type == t {
			return &o.Packages[i]
		}
	}
	return nil
}

// MinPrice is the lowest package price, nil when the offer has no packages.
func (o *Offer) MinPrice() *decimal.Decimal {
	if len(o.Packages) == 0 {
		return nil
	}
	m := o.Packages[0].Price
	for _, p := range o.Packages[1:] {
		if p.Price.LessThan(m) {
			m = p.Price
		}
	}
	return &m
}

// MinDeliveryTime is the shortest delivery time in days, nil when the offer
// has no packages.
func (o *Offer) MinDeliveryTime() *int {
	if len(o.Packages) == 0 {
		return nil
	}
	m := o.Packages[0].DeliveryTimeInDays
	for _, p := range o.Packages[1:] {
		if p.DeliveryTimeInDays < m {
			m = p.DeliveryTimeInDays
		}
	}
	return &m
}

// SortPackages orders packages by id so responses are stable across stores.
func SortPackages(pkgs []Package) {
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].ID < pkgs[j].ID })
}

// ValidatePackageSet checks that types is exactly one of each required tier.
// Messages are reported on the "details" field.
func ValidatePackageSet(types []PackageType, v *ValidationError) {
	if len(types) != len(RequiredPackageTypes) {
		v.Add("details", fmt.Sprintf("An offer must have exactly %d details (basic, standard, premium).", len(RequiredPackageTypes)))
		return
	}
	seen := make(map[PackageType]bool, len(types))
	for _, t := range types {
		if !t.Valid() {
			v.Add("details", fmt.Sprintf("%q is not a valid offer_type.", t))
			continue
		}
		if seen[t] {
			v.Add("details", fmt.Sprintf("Duplicate offer_type %q.", t))
			continue
		}
		seen[t] = true
	}
	for _, r := range RequiredPackageTypes {
		if !seen[r] && !v.Has("details") {
			v.Add("details", fmt.Sprintf("Missing offer_type %q.", r))
		}
	}
}

// ValidatePackageValues checks the numeric ranges of a single package.
// field is the prefix used in messages, e.g. "details[0]".
func ValidatePackageValues(field string, p Package, v *ValidationError) {
	if p.Revisions < UnlimitedRevisions {
		v.Add(field+".revisions", "Ensure this value is greater than or equal to -1.")
	}
	if p.DeliveryTimeInDays < 1 {
		v.Add(field+".delivery_time_in_days", "Ensure this value is greater than or equal to 1.")
	}
	if p.Price.IsNegative() {
		v.Add(field+".price", "Ensure this value is greater than or equal to 0.")
	}
	if p.Features == nil {
		v.Add(field+".features", "This field is required.")
	}
}
