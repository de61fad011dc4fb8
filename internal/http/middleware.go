package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/logger"
)

// RequestLoggerMiddleware logs bridge requests: 5xx at error, 4xx at warn, the rest at debug.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status

			log := logger.Debug
			result := "ok"
			switch {
			case status >= 500:
				log = logger.Error
				result = "failed"
			case status >= 400:
				log = logger.Warn
				result = "failed"
			}
			log("http request",
				"module", "http",
				"action", "request",
				"resource", "bridge",
				"result", result,
				"method", req.Method,
				"path", req.URL.Path,
				"route", c.Path(),
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
