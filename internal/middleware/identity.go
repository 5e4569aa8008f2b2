package middleware

// identity.go defines the helper shared by the cache and rate limit
// middleware to identify the caller. ShareIt identifies users solely
// through the X-Sharer-User-Id header; requests without the header
// (user creation, public item views) are keyed as "guest".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// sharerKey returns the caller's numeric id from the sharer header
// as a string, or "guest" when the header is absent or malformed.
func sharerKey(c echo.Context) string {
	raw := c.Request().Header.Get("X-Sharer-User-Id")
	if raw == "" {
		return "guest"
	}
	if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
		return "guest"
	}
	return raw
}
