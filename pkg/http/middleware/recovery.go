package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "wingman/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover returns recovery middleware. Panics are logged with their stack
// and surfaced as a generic 500, never as a raw trace to the caller.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					l.Error("panic recovered",
						applogger.Error(err),
						applogger.String("path", c.Request().URL.Path),
						applogger.String("stack", string(debug.Stack())),
					)
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"status":  http.StatusInternalServerError,
						"message": "Internal Server Error",
					})
				}
			}()
			return next(c)
		}
	}
}
