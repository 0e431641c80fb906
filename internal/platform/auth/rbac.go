package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user has one of the
// required roles. Admin users always pass.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequirePatientScope restricts patient-bound tokens to routes whose :uid
// parameter matches the token's patient binding. Tokens without a binding
// (admin logins and unbound user logins) pass through.
func RequirePatientScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bound := PatientUIDFromContext(c.Request().Context())
			if bound != "" && bound != c.Param("uid") {
				return echo.NewHTTPError(http.StatusForbidden, "token is not valid for this patient")
			}
			return next(c)
		}
	}
}
