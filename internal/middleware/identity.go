package middleware

import "github.com/labstack/echo/v4"

// userIDHeader carries the authenticated caller identity. The upstream
// gateway owns authentication; by the time a request reaches this
// service the header value is trusted and opaque.
const userIDHeader = "X-User-ID"

const userIDContextKey = "userID"

// UserIdentity extracts the caller identity header into the request
// context. An absent header is allowed: the feed then resolves to the
// empty visibility set.
func UserIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(userIDContextKey, c.Request().Header.Get(userIDHeader))
			return next(c)
		}
	}
}

// GetUserID returns the caller identity set by UserIdentity, or the
// empty string.
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(userIDContextKey).(string); ok {
		return id
	}
	return ""
}
