package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/acme_hr_directory/internal/logger"
)

// ErrorHandler is the echo.HTTPErrorHandler for the whole API. Routing errors
// keep their status; everything else, bind errors included, is a 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			status = he.Code
		}
		msg = fmt.Sprint(he.Message)
	}

	ctx := c.Request().Context()
	logger.ErrorLogFields(ctx, err, map[string]interface{}{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
		"status": status,
	}, "Request failed")

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Error: msg})
	}
	if err != nil {
		logger.ErrorLog(ctx, err, "Failed to write error response")
	}
}
