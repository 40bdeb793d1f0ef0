package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/coderr/marketplace/internal/api/middleware"
	"github.com/coderr/marketplace/internal/core/domain"
)

// principal returns the actor injected by the Auth middleware. Its absence
// means the route was wired without Auth.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// pathID parses a positive integer path parameter. Anything else cannot
// match a record and is reported as 404.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

func queryInt64(c echo.Context, name string, v *domain.ValidationError) *int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		v.Add(name, "A valid integer is required.")
		return nil
	}
	return &n
}

func queryInt(c echo.Context, name string, v *domain.ValidationError) *int {
	n := queryInt64(c, name, v)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

func queryDecimal(c echo.Context, name string, v *domain.ValidationError) *decimal.Decimal {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.Add(name, "A valid number is required.")
		return nil
	}
	return &d
}

func bindError() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
}
