package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS allows browser dashboards on other origins to call the API. An
// allowOrigins entry of "*" admits every origin.
func CORS(allowOrigins []string) echo.MiddlewareFunc {
	allowed := func(origin string) bool {
		for _, o := range allowOrigins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")
			if origin == "" || !allowed(origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
