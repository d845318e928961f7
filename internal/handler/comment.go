package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

// CommentAPI is implemented by service.CommentService.
type CommentAPI interface {
	List(ctx context.Context, videoID string, page, limit int) (model.Page[model.CommentWithOwner], error)
	Add(ctx context.Context, videoID, actor, content string) (*model.Comment, error)
	Update(ctx context.Context, id, actor, content string) (*model.Comment, error)
	Delete(ctx context.Context, id, actor string) error
}

type CommentHandler struct {
	Comments CommentAPI
}

func NewCommentHandler(s CommentAPI) *CommentHandler { return &CommentHandler{Comments: s} }

type contentReq struct {
	Content string `json:"content"`
}

func (h *CommentHandler) List(c echo.Context) error {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	res, err := h.Comments.List(c.Request().Context(), videoID, page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res, "comments fetched successfully")
}

func (h *CommentHandler) Add(c echo.Context) error {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		return err
	}
	var req contentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	cm, err := h.Comments.Add(c.Request().Context(), videoID, actor(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, cm, "comment added successfully")
}

func (h *CommentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "commentId")
	if err != nil {
		return err
	}
	var req contentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	cm, err := h.Comments.Update(c.Request().Context(), id, actor(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cm, "comment updated successfully")
}

func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.Comments.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "comment deleted successfully")
}
