package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

const testJWTSecret = "test-secret"

func runJWTAuth(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := JWTAuth(testJWTSecret)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return c, rec, reached
}

func TestJWTAuthStoresStringClaims(t *testing.T) {
	access, err := utils.NewAccessToken(testJWTSecret, 42, "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, _, reached := runJWTAuth(t, "Bearer "+access.Token)
	if !reached {
		t.Fatal("valid token did not reach the handler")
	}

	// The numeric subject claim decodes as float64; downstream code
	// relies on it being normalized to a string.
	uid, ok := c.Get("user_id").(string)
	if !ok || uid != "42" {
		t.Errorf("user_id = %#v, want string %q", c.Get("user_id"), "42")
	}
	role, ok := c.Get("role").(string)
	if !ok || role != "ADMIN" {
		t.Errorf("role = %#v, want string %q", c.Get("role"), "ADMIN")
	}
}

func TestJWTAuthRejects(t *testing.T) {
	cases := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, rec, reached := runJWTAuth(t, tc.auth)
			if reached {
				t.Fatal("handler reached without valid token")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestUserRateKeyUsesAuthenticatedID(t *testing.T) {
	access, err := utils.NewAccessToken(testJWTSecret, 42, "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	c, _, _ := runJWTAuth(t, "Bearer "+access.Token)

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	if got, want := buildRateKey(cfg, c), "rl:user:42"; got != want {
		t.Errorf("buildRateKey = %q, want %q", got, want)
	}

	// Without a session the bucket falls back to the shared anon key.
	e := echo.New()
	anon := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got, want := buildRateKey(cfg, anon), "rl:user:anon"; got != want {
		t.Errorf("anon buildRateKey = %q, want %q", got, want)
	}
}

func TestClaimString(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"string", "ADMIN", "ADMIN"},
		{"numeric subject", float64(42), "42"},
		{"missing", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := claimString(tc.in); got != tc.want {
				t.Errorf("claimString(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
