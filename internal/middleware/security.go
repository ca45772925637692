package middleware

import (
	"github.com/labstack/echo/v4"
)

// securityHeaders are set on every response. nosniff matters for the relay:
// upstream bodies are always labelled application/json, whatever they contain.
var securityHeaders = map[string]string{
	echo.HeaderXContentTypeOptions: "nosniff",
	echo.HeaderXFrameOptions:       "DENY",
}

// SecurityHeaders returns an Echo middleware that adds security headers to
// responses. Headers are set before the handler runs so they survive handlers
// that commit the response.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}
			return next(c)
		}
	}
}
