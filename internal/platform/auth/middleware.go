package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Skipper decides whether a request bypasses authentication.
type Skipper func(c echo.Context) bool

// PublicRoutes returns a skipper for the endpoints that must work without a
// session: registration, login, token refresh, health, and the public
// catalog/specialist reads the booking form needs before sign-in.
func PublicRoutes() Skipper {
	public := map[string]bool{
		"POST /api/v1/register":      true,
		"POST /api/v1/login":         true,
		"POST /api/v1/refresh":       true,
		"GET /health":                true,
		"GET /api/v1/specialists":    true,
		"GET /api/v1/treatments":     true,
		"GET /api/v1/treatments/:id": true,
		"GET /api/v1/lab-tests":      true,
		"GET /api/v1/lab-tests/:id":  true,
	}
	return func(c echo.Context) bool {
		return public[c.Request().Method+" "+c.Path()]
	}
}

// Middleware parses the Authorization bearer token and places the resulting
// Principal in the request context. Requests matched by skip pass through
// unauthenticated.
func Middleware(secret string, skip Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := ParseAccessToken(parts[1], secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			uid, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := WithPrincipal(c.Request().Context(), Principal{ID: uid, Role: claims.Role})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
