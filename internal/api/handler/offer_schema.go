package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// --- Requests ---

type packageRequest struct {
	Title              string           `json:"title"                 validate:"required"`
	Revisions          *int             `json:"revisions"             validate:"required"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days" validate:"required"`
	Price              *decimal.Decimal `json:"price"                 validate:"required" swaggertype:"string"`
	Features           []string         `json:"features"              validate:"required"`
	OfferType          string           `json:"offer_type"            validate:"required"`
}

type createOfferRequest struct {
	Title       string           `json:"title"       validate:"required"`
	Image       *string          `json:"image"`
	Description string           `json:"description"`
	Details     []packageRequest `json:"details"     validate:"required,dive"`
}

type packagePatchRequest struct {
	Title              *string          `json:"title"`
	Revisions          *int             `json:"revisions"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days"`
	Price              *decimal.Decimal `json:"price"                 swaggertype:"string"`
	Features           *[]string        `json:"features"`
	OfferType          string           `json:"offer_type"            validate:"required"`
}

type updateOfferRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Image       optionalString        `json:"image"       swaggertype:"string"`
	Details     []packagePatchRequest `json:"details"     validate:"omitempty,dive"`
}

// --- Responses ---

// packageResponse is the full body of an offer detail.
type packageResponse struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              string   `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

// packageLinkResponse points at GET /api/offerdetails/:id.
type packageLinkResponse struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type userDetailsResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// offerDetailResponse is the single-offer read view.
type offerDetailResponse struct {
	ID              int64                 `json:"id"`
	User            int64                 `json:"user"`
	Title           string                `json:"title"`
	Image           *string               `json:"image"`
	Description     string                `json:"description"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Details         []packageLinkResponse `json:"details"`
	MinPrice        *float64              `json:"min_price"`
	MinDeliveryTime *int                  `json:"min_delivery_time"`
}

// offerListItemResponse adds the owner's name to the read view.
type offerListItemResponse struct {
	offerDetailResponse
	UserDetails userDetailsResponse `json:"user_details"`
}

// offerWriteResponse is returned by create and update with full packages.
type offerWriteResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Image       *string           `json:"image"`
	Description string            `json:"description"`
	Details     []packageResponse `json:"details"`
}

type offerPageResponse struct {
	Count    int64                   `json:"count"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
	Results  []offerListItemResponse `json:"results"`
}
