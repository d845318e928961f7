package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants
	"strconv"  // strconv parses the duration form value

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/apperr"  // typed application errors
	"github.com/iliyamo/vidtube/internal/model"   // model holds row and response types
	"github.com/iliyamo/vidtube/internal/service" // service holds the controllers
)

// VideoAPI is implemented by service.VideoService.
type VideoAPI interface {
	List(ctx context.Context, in service.ListInput) (model.Page[model.VideoWithOwner], error)
	Publish(ctx context.Context, ownerID string, in service.PublishInput) (*model.Video, error)
	Get(ctx context.Context, id, viewerID string) (*model.VideoWithOwner, error)
	Update(ctx context.Context, id, actor string, in service.UpdateVideoInput) (*model.Video, error)
	Delete(ctx context.Context, id, actor string) error
	TogglePublish(ctx context.Context, id, actor string) (bool, error)
}

type VideoHandler struct {
	Videos VideoAPI
}

func NewVideoHandler(v VideoAPI) *VideoHandler { return &VideoHandler{Videos: v} }

// List: GET /videos?page&limit&query&sortBy&sortType&userId
func (h *VideoHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	userID := c.QueryParam("userId")
	if userID != "" {
		if userID, err = parseID(userID, "userId"); err != nil {
			return err
		}
	}
	res, err := h.Videos.List(c.Request().Context(), service.ListInput{
		Page:     page,
		Limit:    limit,
		Query:    c.QueryParam("query"),
		SortBy:   c.QueryParam("sortBy"),
		SortType: c.QueryParam("sortType"),
		UserID:   userID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res, "videos fetched successfully")
}

// Publish: multipart title, description, videoFile, thumbnail and duration.
func (h *VideoHandler) Publish(c echo.Context) error {
	file, closeFile, err := formFile(c, "videoFile")
	if err != nil {
		return err
	}
	defer closeFile()
	thumb, closeThumb, err := formFile(c, "thumbnail")
	if err != nil {
		return err
	}
	defer closeThumb()

	var duration float64
	if raw := c.FormValue("duration"); raw != "" {
		if duration, err = strconv.ParseFloat(raw, 64); err != nil {
			return apperr.Validation("duration must be a number of seconds")
		}
	}
	v, err := h.Videos.Publish(c.Request().Context(), actor(c), service.PublishInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Duration:    duration,
		VideoFile:   file,
		Thumbnail:   thumb,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, v, "video published successfully")
}

func (h *VideoHandler) Get(c echo.Context) error {
	id, err := pathID(c, "videoId")
	if err != nil {
		return err
	}
	v, err := h.Videos.Get(c.Request().Context(), id, actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v, "video fetched successfully")
}

func (h *VideoHandler) Update(c echo.Context) error {
	id, err := pathID(c, "videoId")
	if err != nil {
		return err
	}
	thumb, closeThumb, err := formFile(c, "thumbnail")
	if err != nil {
		return err
	}
	defer closeThumb()

	v, err := h.Videos.Update(c.Request().Context(), id, actor(c), service.UpdateVideoInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Thumbnail:   thumb,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v, "video updated successfully")
}

func (h *VideoHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "videoId")
	if err != nil {
		return err
	}
	if err := h.Videos.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "video deleted successfully")
}

func (h *VideoHandler) TogglePublish(c echo.Context) error {
	id, err := pathID(c, "videoId")
	if err != nil {
		return err
	}
	published, err := h.Videos.TogglePublish(c.Request().Context(), id, actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"isPublished": published}, "publish status toggled")
}
