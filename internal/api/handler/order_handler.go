package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/api/metrics"
	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type createOrderRequest struct {
	OfferDetailID *int64 `json:"offer_detail_id" validate:"required"`
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

// orderResponse flattens the referenced package into the order.
type orderResponse struct {
	ID                 int64     `json:"id"`
	CustomerUser       int64     `json:"customer_user"`
	BusinessUser       int64     `json:"business_user"`
	Title              string    `json:"title"`
	Revisions          int       `json:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days"`
	Price              string    `json:"price"`
	Features           []string  `json:"features"`
	OfferType          string    `json:"offer_type"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type orderCountResponse struct {
	OrderCount int64 `json:"order_count"`
}

type completedOrderCountResponse struct {
	CompletedOrderCount int64 `json:"completed_order_count"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		CustomerUser: o.CustomerUserID,
		BusinessUser: o.BusinessUserID,
		Features:     []string{},
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt.UTC(),
		UpdatedAt:    o.UpdatedAt.UTC(),
	}
	if p := o.Package; p != nil {
		pkg := toPackageResponse(*p)
		resp.Title = pkg.Title
		resp.Revisions = pkg.Revisions
		resp.DeliveryTimeInDays = pkg.DeliveryTimeInDays
		resp.Price = pkg.Price
		resp.Features = pkg.Features
		resp.OfferType = pkg.OfferType
	}
	return resp
}

// List handles GET /api/orders. Returns the caller's orders as customer or
// business user.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orders, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/orders. Customers only.
//
// @Summary      Place an order for an offer detail
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Offer detail to order"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.service.Create(c.Request().Context(), p, *req.OfferDetailID)
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Update handles PATCH /api/orders/:id. Only the order's business user may
// change its status.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Order ID"
// @Param        body  body      updateOrderRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/orders/{id} [patch]
func (h *OrderHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), p, id, req.Status)
	if err != nil {
		return err
	}

	metrics.OrderStatusChangesTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete handles DELETE /api/orders/:id. Staff only.
//
// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        id   path  int  true  "Order ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
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

// OrderCount handles GET /api/order-count/:business_user_id.
//
// @Summary      Count in-progress orders of a business user
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        business_user_id  path      int  true  "Business user ID"
// @Success      200               {object}  orderCountResponse
// @Failure      401               {object}  ErrorResponse
// @Failure      404               {object}  ErrorResponse
// @Router       /api/order-count/{business_user_id} [get]
func (h *OrderHandler) OrderCount(c echo.Context) error {
	n, err := h.count(c, domain.OrderInProgress)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderCountResponse{OrderCount: n})
}

// CompletedOrderCount handles GET /api/completed-order-count/:business_user_id.
//
// @Summary      Count completed orders of a business user
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        business_user_id  path      int  true  "Business user ID"
// @Success      200               {object}  completedOrderCountResponse
// @Failure      401               {object}  ErrorResponse
// @Failure      404               {object}  ErrorResponse
// @Router       /api/completed-order-count/{business_user_id} [get]
func (h *OrderHandler) CompletedOrderCount(c echo.Context) error {
	n, err := h.count(c, domain.OrderCompleted)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, completedOrderCountResponse{CompletedOrderCount: n})
}

func (h *OrderHandler) count(c echo.Context, status domain.OrderStatus) (int64, error) {
	id, err := pathID(c, "business_user_id")
	if err != nil {
		return 0, err
	}
	return h.service.CountForBusiness(c.Request().Context(), id, status)
}
