package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, mw(okHandler)(c)
}

func TestMiddleware_ValidToken(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	token, _ := issuer.Issue("user-1", []string{"admin"}, "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID string
	var gotRoles []string
	handler := Middleware(issuer)(func(c echo.Context) error {
		gotID = UserIDFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "user-1" {
		t.Errorf("expected user-1 on context, got %q", gotID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "admin" {
		t.Errorf("expected admin role on context, got %v", gotRoles)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	_, err := runMiddleware(t, Middleware(issuer), "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 HTTPError, got %v", err)
	}
}

func TestMiddleware_NotBearer(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	_, err := runMiddleware(t, Middleware(issuer), "Basic dXNlcjpwdw==")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 HTTPError, got %v", err)
	}
}

func TestMiddleware_BadToken(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	_, err := runMiddleware(t, Middleware(issuer), "Bearer garbage")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 HTTPError, got %v", err)
	}
}

func TestDevMiddleware_GrantsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRoles []string
	handler := DevMiddleware()(func(c echo.Context) error {
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "admin" {
		t.Errorf("expected admin role, got %v", gotRoles)
	}
}
