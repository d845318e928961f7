package handler // handler package contains the HTTP handlers for each resource

import (
	"errors"   // errors.As unwraps apperr and echo errors
	"fmt"      // fmt renders non-string echo messages
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers
	"go.uber.org/zap"             // structured logging

	"github.com/iliyamo/vidtube/internal/apperr" // typed application errors
)

// ErrorHandler returns the echo HTTPErrorHandler. Typed errors keep their
// status and message; anything else is a 500 whose cause is only logged.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"
		details := []string{}

		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = ae.Status()
			message = ae.Message
			if len(ae.Details) > 0 {
				details = ae.Details
			}
		case errors.As(err, &he):
			status = he.Code
			if status >= http.StatusInternalServerError {
				break
			}
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = fmt.Sprint(he.Message)
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
		}

		body := ErrorResponse{Status: status, Message: message, Success: false, Errors: details}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}
