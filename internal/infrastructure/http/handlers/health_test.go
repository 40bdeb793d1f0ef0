package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("liveness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "no dependencies", deps: nil, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "all healthy", deps: map[string]Pinger{"mongodb": ok, "redis": ok}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "one down", deps: map[string]Pinger{"mongodb": ok, "redis": down}, wantStatus: http.StatusServiceUnavailable, wantBody: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewReadinessHandler(tt.deps).Readiness(c); err != nil {
				t.Fatalf("readiness: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantBody {
				t.Fatalf("status field = %q, want %q", body.Status, tt.wantBody)
			}
			if len(body.Dependencies) != len(tt.deps) {
				t.Fatalf("got %d dependencies, want %d", len(body.Dependencies), len(tt.deps))
			}
			if d, found := body.Dependencies["redis"]; found && tt.wantStatus != http.StatusOK && d.Error == "" {
				t.Fatalf("failed dependency has no error message")
			}
		})
	}
}
