// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
)

// RequireUserType restricts a route to the given user types. It must run
// after JWTMiddleware, which stores the claims on the context.
func RequireUserType(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType, ok := c.Get("userType").(string)
			if !ok || userType == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication required",
				})
			}

			for _, t := range allowed {
				if userType == t {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "You do not have permission to access this resource",
			})
		}
	}
}
