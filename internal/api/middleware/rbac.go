package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
)

// Require rejects the request with domain.ErrForbidden unless allow accepts
// the principal. It runs after Auth and before the body is read, so a
// disallowed role is reported ahead of any payload validation.
func Require(allow func(domain.Principal) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !allow(p) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
