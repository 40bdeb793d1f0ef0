package domain

import (
	"strconv"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a business user. At most one review
// exists per (business user, reviewer) pair.
type Review struct {
	ID             int64
	BusinessUserID int64
	ReviewerID     int64
	Rating         int
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// PlatformStats is the public aggregate shown on the landing page.
type PlatformStats struct {
	ReviewCount          int64
	AverageRating        *float64
	BusinessProfileCount int64
	OfferCount           int64
}

// RoundRating rounds an average rating to one decimal place from its exact
// binary value, ties to even: 4.25 becomes 4.2.
func RoundRating(avg float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(avg, 'f', 1, 64), 64)
	if err != nil {
		return avg
	}
	return r
}
