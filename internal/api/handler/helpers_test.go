package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/api/middleware"
	"github.com/coderr/marketplace/internal/core/domain"
)

// newContext builds an echo.Context for a JSON request. A non-nil principal
// is injected the way middleware.Auth does it.
func newContext(method, target, body string, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(middleware.PrincipalKey, *p)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != code {
		t.Fatalf("expected HTTP %d error, got %v", code, err)
	}
}

func expectValidationField(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !ve.Has(field) {
		t.Fatalf("expected message on %q, got %v", field, ve.Fields)
	}
}

var (
	business = &domain.Principal{UserID: 1, Username: "alice", Role: domain.RoleBusiness}
	customer = &domain.Principal{UserID: 2, Username: "bob", Role: domain.RoleCustomer}
)
