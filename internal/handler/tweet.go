package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

// TweetAPI is implemented by service.TweetService.
type TweetAPI interface {
	Create(ctx context.Context, actor, content string) (*model.Tweet, error)
	ListByUser(ctx context.Context, userID string) ([]model.TweetWithOwner, error)
	Update(ctx context.Context, id, actor, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id, actor string) error
}

type TweetHandler struct {
	Tweets TweetAPI
}

func NewTweetHandler(s TweetAPI) *TweetHandler { return &TweetHandler{Tweets: s} }

func (h *TweetHandler) Create(c echo.Context) error {
	var req contentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.Tweets.Create(c.Request().Context(), actor(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, t, "tweet created successfully")
}

func (h *TweetHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	out, err := h.Tweets.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out, "tweets fetched successfully")
}

func (h *TweetHandler) Update(c echo.Context) error {
	id, err := pathID(c, "tweetId")
	if err != nil {
		return err
	}
	var req contentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.Tweets.Update(c.Request().Context(), id, actor(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t, "tweet updated successfully")
}

func (h *TweetHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "tweetId")
	if err != nil {
		return err
	}
	if err := h.Tweets.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "tweet deleted successfully")
}
