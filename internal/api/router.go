package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/api/handler"
	"github.com/coderr/marketplace/internal/api/middleware"
	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

// Dependencies are the services the API routes dispatch to.
type Dependencies struct {
	Auth     ports.AuthService
	Profiles ports.ProfileService
	Offers   ports.OfferService
	Orders   ports.OrderService
	Reviews  ports.ReviewService
	Stats    ports.StatsService
	Log      zerolog.Logger
}

// Register installs the validator, the error handler and every /api route on e.
// A trailing slash is optional on all paths.
func Register(e *echo.Echo, deps Dependencies) {
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Pre(echomiddleware.RemoveTrailingSlash())

	authHandler := handler.NewAuthHandler(deps.Auth)
	profileHandler := handler.NewProfileHandler(deps.Profiles)
	offerHandler := handler.NewOfferHandler(deps.Offers)
	orderHandler := handler.NewOrderHandler(deps.Orders)
	reviewHandler := handler.NewReviewHandler(deps.Reviews)
	statsHandler := handler.NewStatsHandler(deps.Stats)

	authn := middleware.Auth(deps.Auth)

	g := e.Group("/api")

	// --- Public routes ---
	g.POST("/registration", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.GET("/offers", offerHandler.List)
	g.GET("/base-info", statsHandler.BaseInfo)

	// --- Authenticated routes ---
	r := g.Group("", authn)

	r.GET("/profile/:id", profileHandler.Get)
	r.PATCH("/profile/:id", profileHandler.Update)
	r.GET("/profiles/business", profileHandler.ListBusiness)
	r.GET("/profiles/customer", profileHandler.ListCustomer)

	r.POST("/offers", offerHandler.Create, middleware.Require(domain.CanCreateOffer))
	r.GET("/offers/:id", offerHandler.Get)
	r.PATCH("/offers/:id", offerHandler.Update)
	r.DELETE("/offers/:id", offerHandler.Delete)
	r.GET("/offerdetails/:id", offerHandler.GetPackage)

	r.GET("/orders", orderHandler.List)
	r.POST("/orders", orderHandler.Create, middleware.Require(domain.CanCreateOrder))
	r.PATCH("/orders/:id", orderHandler.Update)
	r.DELETE("/orders/:id", orderHandler.Delete, middleware.Require(domain.CanDeleteOrder))
	r.GET("/order-count/:business_user_id", orderHandler.OrderCount)
	r.GET("/completed-order-count/:business_user_id", orderHandler.CompletedOrderCount)

	r.GET("/reviews", reviewHandler.List)
	r.POST("/reviews", reviewHandler.Create, middleware.Require(domain.CanCreateReview))
	r.GET("/reviews/:id", reviewHandler.Get)
	r.PATCH("/reviews/:id", reviewHandler.Update)
	r.DELETE("/reviews/:id", reviewHandler.Delete)
}
