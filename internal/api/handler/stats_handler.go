package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/ports"
)

type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

type baseInfoResponse struct {
	ReviewCount          int64    `json:"review_count"`
	AverageRating        *float64 `json:"average_rating"`
	BusinessProfileCount int64    `json:"business_profile_count"`
	OfferCount           int64    `json:"offer_count"`
}

// BaseInfo handles GET /api/base-info. No authentication is required.
//
// @Summary      Platform statistics
// @Tags         stats
// @Produce      json
// @Success      200  {object}  baseInfoResponse
// @Router       /api/base-info [get]
func (h *StatsHandler) BaseInfo(c echo.Context) error {
	stats, err := h.service.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, baseInfoResponse{
		ReviewCount:          stats.ReviewCount,
		AverageRating:        stats.AverageRating,
		BusinessProfileCount: stats.BusinessProfileCount,
		OfferCount:           stats.OfferCount,
	})
}
