package middleware

// identity.go defines helpers shared across middleware files for reading
// the caller identity that CallerAuth stored in the Echo context.  The id
// is an opaque, pre-validated string; nothing in this service interprets
// it beyond equality checks.

import "github.com/labstack/echo/v4"

// CallerID returns the authenticated caller id from the context, or ""
// when the request is unauthenticated.
func CallerID(c echo.Context) string {
	if v := c.Get("caller_id"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// currentCallerID is CallerID with an "anon" fallback for rate-limit keys.
func currentCallerID(c echo.Context) string {
	if s := CallerID(c); s != "" {
		return s
	}
	return "anon"
}
