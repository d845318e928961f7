package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

// SubscriptionAPI is implemented by service.SubscriptionService.
type SubscriptionAPI interface {
	Toggle(ctx context.Context, actor, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]model.UserSummary, error)
	Channels(ctx context.Context, subscriberID string) ([]model.UserSummary, error)
}

type SubscriptionHandler struct {
	Subs SubscriptionAPI
}

func NewSubscriptionHandler(s SubscriptionAPI) *SubscriptionHandler {
	return &SubscriptionHandler{Subs: s}
}

func (h *SubscriptionHandler) Toggle(c echo.Context) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	on, err := h.Subs.Toggle(c.Request().Context(), actor(c), channelID)
	if err != nil {
		return err
	}
	msg := "unsubscribed"
	if on {
		msg = "subscribed"
	}
	return respond(c, http.StatusOK, echo.Map{"isSubscribed": on}, msg)
}

func (h *SubscriptionHandler) Subscribers(c echo.Context) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	out, err := h.Subs.Subscribers(c.Request().Context(), channelID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out, "subscribers fetched successfully")
}

func (h *SubscriptionHandler) Channels(c echo.Context) error {
	subscriberID, err := pathID(c, "subscriberId")
	if err != nil {
		return err
	}
	out, err := h.Subs.Channels(c.Request().Context(), subscriberID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out, "subscribed channels fetched successfully")
}
