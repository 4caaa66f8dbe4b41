package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/correlation"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
