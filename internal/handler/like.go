package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

// LikeAPI is implemented by service.LikeService.
type LikeAPI interface {
	Toggle(ctx context.Context, actor string, target model.LikeTarget, id string) (bool, error)
	LikedVideos(ctx context.Context, actor string) ([]model.LikedVideo, error)
}

type LikeHandler struct {
	Likes LikeAPI
}

func NewLikeHandler(s LikeAPI) *LikeHandler { return &LikeHandler{Likes: s} }

func (h *LikeHandler) ToggleVideo(c echo.Context) error {
	return h.toggle(c, model.LikeVideo, "videoId")
}

func (h *LikeHandler) ToggleComment(c echo.Context) error {
	return h.toggle(c, model.LikeComment, "commentId")
}

func (h *LikeHandler) ToggleTweet(c echo.Context) error {
	return h.toggle(c, model.LikeTweet, "tweetId")
}

func (h *LikeHandler) toggle(c echo.Context, target model.LikeTarget, param string) error {
	id, err := pathID(c, param)
	if err != nil {
		return err
	}
	liked, err := h.Likes.Toggle(c.Request().Context(), actor(c), target, id)
	if err != nil {
		return err
	}
	msg := string(target) + " unliked"
	if liked {
		msg = string(target) + " liked"
	}
	return respond(c, http.StatusOK, echo.Map{"isLiked": liked}, msg)
}

func (h *LikeHandler) LikedVideos(c echo.Context) error {
	v, err := h.Likes.LikedVideos(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v, "liked videos fetched successfully")
}
