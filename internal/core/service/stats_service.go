package service

import (
	"context"
	"fmt"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

// StatsService computes the landing-page aggregates on every call.
type StatsService struct {
	reviews ports.ReviewRepository
	users   ports.UserRepository
	offers  ports.OfferRepository
}

func NewStatsService(reviews ports.ReviewRepository, users ports.UserRepository, offers ports.OfferRepository) *StatsService {
	return &StatsService{reviews: reviews, users: users, offers: offers}
}

func (s *StatsService) Get(ctx context.Context) (*domain.PlatformStats, error) {
	count, avg, err := s.reviews.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	businesses, err := s.users.CountByRole(ctx, domain.RoleBusiness)
	if err != nil {
		return nil, fmt.Errorf("count business users: %w", err)
	}
	offers, err := s.offers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}

	stats := &domain.PlatformStats{
		ReviewCount:          count,
		BusinessProfileCount: businesses,
		OfferCount:           offers,
	}
	if count > 0 && avg != nil {
		rounded := domain.RoundRating(*avg)
		stats.AverageRating = &rounded
	}
	return stats, nil
}
