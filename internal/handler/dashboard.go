package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

// DashboardAPI is implemented by service.DashboardService.
type DashboardAPI interface {
	Stats(ctx context.Context, ownerID string) (model.ChannelStats, error)
	Videos(ctx context.Context, ownerID string) ([]model.Video, error)
}

type DashboardHandler struct {
	Dashboard DashboardAPI
}

func NewDashboardHandler(s DashboardAPI) *DashboardHandler { return &DashboardHandler{Dashboard: s} }

func (h *DashboardHandler) Stats(c echo.Context) error {
	st, err := h.Dashboard.Stats(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, st, "channel stats fetched successfully")
}

func (h *DashboardHandler) Videos(c echo.Context) error {
	v, err := h.Dashboard.Videos(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v, "channel videos fetched successfully")
}
