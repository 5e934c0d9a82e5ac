package middleware

import (
	"github.com/OFFIS-RIT/cubeql/internal/app"

	"github.com/labstack/echo/v4"
)

type AppContext struct {
	echo.Context
	App *app.App
}

// AppContextMiddleware hands the process-wide App to every handler.
func AppContextMiddleware(a *app.App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, a}
			return next(cc)
		}
	}
}

