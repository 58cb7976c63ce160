package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Shekhar0165/doctor-appointment-system/internal/auth"
)

// Context keys populated by Auth.
const (
	SubjectIDKey = "subject_id"
	RoleKey      = "role"
)

// Auth validates the access token and, when role is non-empty, requires the
// token to carry that role. The token comes from the Authorization header or
// the access_token cookie.
func Auth(secret, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token")
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "bad token")
			}
			if role != "" && claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}

			c.Set(SubjectIDKey, claims.SubjectID)
			c.Set(RoleKey, claims.Role)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if ck, err := c.Cookie("access_token"); err == nil {
		return ck.Value
	}
	return ""
}
