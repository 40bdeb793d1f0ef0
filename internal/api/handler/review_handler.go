package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/api/metrics"
	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	BusinessUser *int64 `json:"business_user" validate:"required"`
	Rating       *int   `json:"rating"        validate:"required"`
	Description  string `json:"description"`
}

// updateReviewRequest accepts only rating and description; other keys are ignored.
type updateReviewRequest struct {
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
}

type reviewResponse struct {
	ID           int64     `json:"id"`
	BusinessUser int64     `json:"business_user"`
	Reviewer     int64     `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:           r.ID,
		BusinessUser: r.BusinessUserID,
		Reviewer:     r.ReviewerID,
		Rating:       r.Rating,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// List handles GET /api/reviews.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        business_user_id  query     int     false  "Reviewed business user"
// @Param        reviewer_id       query     int     false  "Reviewer"
// @Param        ordering          query     string  false  "updated_at, -updated_at, rating or -rating"
// @Success      200               {array}   reviewResponse
// @Failure      400               {object}  ValidationResponse
// @Failure      401               {object}  ErrorResponse
// @Router       /api/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	v := domain.NewValidationError()
	filter := ports.ListReviewsFilter{
		BusinessUserID: queryInt64(c, "business_user_id", v),
		ReviewerID:     queryInt64(c, "reviewer_id", v),
		Ordering:       c.QueryParam("ordering"),
	}
	if err := v.Err(); err != nil {
		return err
	}

	reviews, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/reviews/:id.
//
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Review ID"
// @Success      200  {object}  reviewResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// Create handles POST /api/reviews. Customers only.
//
// @Summary      Review a business user
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /api/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), p, ports.CreateReviewInput{
		BusinessUserID: *req.BusinessUser,
		Rating:         *req.Rating,
		Description:    req.Description,
	})
	if err != nil {
		return err
	}

	metrics.ReviewsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// Update handles PATCH /api/reviews/:id. Reviewer only.
//
// @Summary      Update own review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Review ID"
// @Param        body  body      updateReviewRequest  true  "Rating and/or description"
// @Success      200   {object}  reviewResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/reviews/{id} [patch]
func (h *ReviewHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	review, err := h.service.Update(c.Request().Context(), p, id, ports.UpdateReviewInput{
		Rating:      req.Rating,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// Delete handles DELETE /api/reviews/:id. Reviewer only.
//
// @Summary      Delete own review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id   path  int  true  "Review ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
