package handler // handler package contains the HTTP handlers for each resource

import (
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers
)

// Health is the plain-text liveness probe for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Healthcheck answers with the standard envelope.
func Healthcheck(c echo.Context) error {
	return respond(c, http.StatusOK, echo.Map{"status": "OK"}, "service is healthy")
}
