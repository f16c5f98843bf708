package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

// ActivityRecorder receives a signal for each authenticated interaction.
type ActivityRecorder interface {
	Touch(ctx context.Context)
}

// Activity reports every authenticated request as user activity, feeding the
// idle-timeout clock. Mount after Auth so unauthenticated traffic does not
// keep sessions alive.
func Activity(recorder ActivityRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			recorder.Touch(c.Request().Context())
			return next(c)
		}
	}
}
