package logger

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// AttachRequestID stores a request-scoped logger carrying request_id in the
// request context. It is meant to be used as middleware.RequestIDConfig.RequestIDHandler.
func AttachRequestID(c echo.Context, rid string) {
	req := c.Request()
	ctx := WithLogger(req.Context(), map[string]interface{}{"request_id": rid})
	c.SetRequest(req.WithContext(ctx))
}

// RequestLogger logs one line per request through the context logger.
// Errors go through the echo error handler first so the logged status is the
// one sent to the client.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError: true,
		LogError:    true,
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := getLogger(c.Request().Context()).Info()
			if v.Error != nil {
				ev = getLogger(c.Request().Context()).Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// LogPanic is a middleware.RecoverConfig.LogErrorFunc that records the
// recovered panic with its stack and hands the error on to the error handler.
func LogPanic(c echo.Context, err error, stack []byte) error {
	getLogger(c.Request().Context()).Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Str("stack", string(stack)).
		Msg("recovered from panic")
	return err
}
