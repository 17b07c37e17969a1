package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-board/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's identity into the request context.
// Handlers behind it read the caller via `c.Get("user_id")` (uint64)
// and `c.Get("username")` (string). Every validation failure —
// malformed, expired, or missing claims — yields the same generic 401
// body so no token internals leak to the caller.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			id, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				// The variants stay distinguishable in logs and tests,
				// not in the response.
				c.Logger().Debugf("token rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
			}

			c.Set("user_id", id.UserID)
			c.Set("username", id.Username)
			return next(c)
		}
	}
}

// CallerID returns the authenticated user's ID from the context. It
// is only meaningful behind JWTAuth; the second return reports whether
// an identity was present.
func CallerID(c echo.Context) (uint64, bool) {
	v, ok := c.Get("user_id").(uint64)
	return v, ok
}
