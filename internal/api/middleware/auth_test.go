package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
)

type stubAuthenticator struct {
	tokens map[string]domain.Principal
	err    error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	if s.err != nil {
		return domain.Principal{}, s.err
	}
	p, ok := s.tokens[token]
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

func newAuthStub() *stubAuthenticator {
	return &stubAuthenticator{tokens: map[string]domain.Principal{
		"good-token": {UserID: 7, Username: "alice", Role: domain.RoleBusiness},
	}}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Fatalf("expected %d, got %d", want, he.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	for _, scheme := range []string{"Bearer", "Token", "bearer"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", scheme+" good-token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		called := false
		handler := Auth(newAuthStub())(func(c echo.Context) error {
			called = true
			p, ok := PrincipalFrom(c)
			if !ok || p.UserID != 7 || p.Role != domain.RoleBusiness {
				t.Fatalf("principal not set: %+v", p)
			}
			return c.NoContent(http.StatusOK)
		})

		if err := handler(c); err != nil {
			t.Fatalf("%s: handler error: %v", scheme, err)
		}
		if !called {
			t.Fatalf("%s: next not called", scheme)
		}
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Auth(newAuthStub())(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	for _, header := range []string{"good-token", "Basic good-token", "Bearer ", "Bearer unknown"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		c := e.NewContext(req, httptest.NewRecorder())

		err := Auth(newAuthStub())(func(c echo.Context) error {
			t.Fatalf("%q: should not reach next handler", header)
			return nil
		})(c)
		assertStatus(t, err, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	stub := newAuthStub()
	stub.err = errors.New("redis down")
	err := Auth(stub)(func(c echo.Context) error { return nil })(c)

	var he *echo.HTTPError
	if err == nil || errors.As(err, &he) {
		t.Fatalf("store failures must surface as internal errors, got %v", err)
	}
}
