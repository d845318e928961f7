package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/model" // model holds row and response types
)

// PlaylistAPI is implemented by service.PlaylistService.
type PlaylistAPI interface {
	Create(ctx context.Context, actor, name, description string) (*model.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]model.Playlist, error)
	Get(ctx context.Context, id, viewerID string) (*model.PlaylistDetail, error)
	Update(ctx context.Context, id, actor, name, description string) (*model.Playlist, error)
	Delete(ctx context.Context, id, actor string) error
	AddVideo(ctx context.Context, playlistID, videoID, actor string) (*model.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, actor string) (*model.Playlist, error)
}

type PlaylistHandler struct {
	Playlists PlaylistAPI
}

func NewPlaylistHandler(s PlaylistAPI) *PlaylistHandler { return &PlaylistHandler{Playlists: s} }

type playlistReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PlaylistHandler) Create(c echo.Context) error {
	var req playlistReq
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.Playlists.Create(c.Request().Context(), actor(c), req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p, "playlist created successfully")
}

func (h *PlaylistHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	out, err := h.Playlists.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out, "playlists fetched successfully")
}

func (h *PlaylistHandler) Get(c echo.Context) error {
	id, err := pathID(c, "playlistId")
	if err != nil {
		return err
	}
	p, err := h.Playlists.Get(c.Request().Context(), id, actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p, "playlist fetched successfully")
}

func (h *PlaylistHandler) Update(c echo.Context) error {
	id, err := pathID(c, "playlistId")
	if err != nil {
		return err
	}
	var req playlistReq
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.Playlists.Update(c.Request().Context(), id, actor(c), req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p, "playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "playlistId")
	if err != nil {
		return err
	}
	if err := h.Playlists.Delete(c.Request().Context(), id, actor(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(c echo.Context) error {
	return h.membership(c, h.Playlists.AddVideo, "video added to playlist")
}

func (h *PlaylistHandler) RemoveVideo(c echo.Context) error {
	return h.membership(c, h.Playlists.RemoveVideo, "video removed from playlist")
}

func (h *PlaylistHandler) membership(c echo.Context,
	op func(ctx context.Context, playlistID, videoID, actor string) (*model.Playlist, error), msg string) error {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		return err
	}
	playlistID, err := pathID(c, "playlistId")
	if err != nil {
		return err
	}
	p, err := op(c.Request().Context(), playlistID, videoID, actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p, msg)
}
