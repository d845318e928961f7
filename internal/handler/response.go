// Package handler holds the echo handlers, the cookie session boundary
// and the JSON envelopes every endpoint answers with.
package handler

import (
	"github.com/labstack/echo/v4" // echo is the web framework used for handlers
)

// Response is the success envelope. Success is status < 400.
type Response struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Response{Status: status, Data: data, Message: message, Success: status < 400})
}

// empty is rendered as {} for operations with nothing to return.
var empty = struct{}{}
