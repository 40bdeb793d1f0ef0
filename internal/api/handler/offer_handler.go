package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/api/metrics"
	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

// OfferHandler handles HTTP requests for offers and offer details.
type OfferHandler struct {
	service ports.OfferService
}

func NewOfferHandler(service ports.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// List handles GET /api/offers. No authentication is required.
//
// @Summary      List offers
// @Tags         offers
// @Produce      json
// @Param        page               query     int     false  "Page number (1-based)"
// @Param        page_size          query     int     false  "Items per page"
// @Param        creator_id         query     int     false  "Owner user ID"
// @Param        min_price          query     number  false  "Some package priced at least this"
// @Param        max_delivery_time  query     int     false  "Some package delivered within this many days"
// @Param        search             query     string  false  "Matches title or description"
// @Param        ordering           query     string  false  "updated_at, -updated_at, min_price or -min_price"
// @Success      200                {object}  offerPageResponse
// @Failure      400                {object}  ValidationResponse
// @Failure      404                {object}  ErrorResponse
// @Router       /api/offers [get]
func (h *OfferHandler) List(c echo.Context) error {
	v := domain.NewValidationError()
	in := ports.ListOffersInput{
		CreatorID:       queryInt64(c, "creator_id", v),
		MinPrice:        queryDecimal(c, "min_price", v),
		MaxDeliveryTime: queryInt(c, "max_delivery_time", v),
		Search:          c.QueryParam("search"),
		Ordering:        c.QueryParam("ordering"),
	}
	if page := queryInt(c, "page", v); page != nil {
		if *page < 1 {
			return domain.ErrPageNotFound
		}
		in.Page = *page
	}
	if size := queryInt(c, "page_size", v); size != nil {
		in.PageSize = *size
	}
	if err := v.Err(); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	results := make([]offerListItemResponse, 0, len(page.Items))
	for _, o := range page.Items {
		results = append(results, toOfferListItem(o, page.Owners[o.OwnerID]))
	}

	resp := offerPageResponse{Count: page.Total, Results: results}
	if page.HasNext() {
		resp.Next = pageURL(c, page.Page+1)
	}
	if page.Page > 1 {
		resp.Previous = pageURL(c, page.Page-1)
	}
	return c.JSON(http.StatusOK, resp)
}

// pageURL rebuilds the request URL pointing at another page. Page 1 drops
// the parameter.
func pageURL(c echo.Context, page int) *string {
	u := *c.Request().URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := c.Scheme() + "://" + c.Request().Host + u.RequestURI()
	return &s
}

// Get handles GET /api/offers/:id.
//
// @Summary      Get an offer
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Offer ID"
// @Success      200  {object}  offerDetailResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/offers/{id} [get]
func (h *OfferHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	offer, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOfferDetailResponse(offer))
}

// Create handles POST /api/offers. Business users only.
//
// @Summary      Create an offer with its three packages
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOfferRequest  true  "Offer with basic, standard and premium details"
// @Success      201   {object}  offerWriteResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /api/offers [post]
func (h *OfferHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createOfferRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	offer, err := h.service.Create(c.Request().Context(), p, toCreateOfferInput(req))
	if err != nil {
		return err
	}

	metrics.OffersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toOfferWriteResponse(offer))
}

// Update handles PATCH /api/offers/:id. Owner only.
//
// @Summary      Update an offer
// @Description  Package entries are matched by offer_type; unknown types are ignored.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Offer ID"
// @Param        body  body      updateOfferRequest  true  "Fields to update"
// @Success      200   {object}  offerWriteResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/offers/{id} [patch]
func (h *OfferHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOfferRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	offer, err := h.service.Update(c.Request().Context(), p, id, toUpdateOfferInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOfferWriteResponse(offer))
}

// Delete handles DELETE /api/offers/:id. Owner only.
//
// @Summary      Delete an offer
// @Tags         offers
// @Security     BearerAuth
// @Param        id   path  int  true  "Offer ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/offers/{id} [delete]
func (h *OfferHandler) Delete(c echo.Context) error {
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

// GetPackage handles GET /api/offerdetails/:id.
//
// @Summary      Get an offer detail
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Offer detail ID"
// @Success      200  {object}  packageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/offerdetails/{id} [get]
func (h *OfferHandler) GetPackage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	pkg, err := h.service.GetPackage(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPackageResponse(*pkg))
}
