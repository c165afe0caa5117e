package echomw

import (
	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

func RouteAccessLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		LogRouteAccess(c, tl.Info, "Accessing route", palette.Blue) // Log the visit
		err := next(c)
		if err != nil {
			c.Error(err) // let the error handler set the final status before we log it
		}
		colorizer := palette.Green
		if c.Response().Status >= 400 {
			colorizer = palette.Yellow
		}
		LogRouteAccess(c, tl.Info1, "Route accessed", colorizer)
		return nil
	}
}

// Log route access
func LogRouteAccess(c echo.Context, logLevel tl.LogLevel, actionName string, colorizer palette.Colorizer) {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	tl.Log(
		logLevel, colorizer, "%s: Method='%s', Path='%s', Status='%s', ClientIP='%s', RequestID='%s'",
		actionName, c.Request().Method, c.Path(), c.Response().Status, c.RealIP(), requestID,
	)
}
