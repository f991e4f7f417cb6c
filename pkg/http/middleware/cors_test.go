package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newCORSEcho() *echo.Echo {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderAccept},
	}))
	e.GET("/api/markets", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantMethods string
	}{
		{"get with origin", http.MethodGet, "https://board.example", http.StatusOK, "https://board.example", ""},
		{"get without origin", http.MethodGet, "", http.StatusOK, "*", ""},
		{"preflight", http.MethodOptions, "https://board.example", http.StatusNoContent, "https://board.example", "GET, OPTIONS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/markets", nil)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()
			newCORSEcho().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status %d want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != tt.wantOrigin {
				t.Fatalf("allow-origin %q want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); got != tt.wantMethods {
				t.Fatalf("allow-methods %q want %q", got, tt.wantMethods)
			}
		})
	}
}
