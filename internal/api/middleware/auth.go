package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
)

// PrincipalKey is the echo.Context key holding the authenticated principal.
const PrincipalKey = "principal"

// Authenticator resolves a bearer token to the principal it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// Auth validates the bearer token and injects the principal into context.
// Both "Bearer" and "Token" schemes are accepted.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !validScheme(parts[0]) || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := authn.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if errors.Is(err, domain.ErrUnauthenticated) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if err != nil {
				return err
			}

			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}

func validScheme(s string) bool {
	return strings.EqualFold(s, "bearer") || strings.EqualFold(s, "token")
}

// PrincipalFrom returns the principal set by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	return p, ok
}
