package api

import (
	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs requests with zap, skipping the given routes so
// readiness probes do not flood the logs.
func RequestLogger(zapLogger *zap.Logger, skipRoutes []string) echo.MiddlewareFunc {
	skipped := map[string]struct{}{}
	for _, route := range skipRoutes {
		skipped[route] = struct{}{}
	}

	logged := echozap.ZapLogger(zapLogger)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		loggedNext := logged(next)
		return func(ec echo.Context) error {
			if _, ok := skipped[ec.Path()]; ok {
				return next(ec)
			}
			return loggedNext(ec)
		}
	}
}
