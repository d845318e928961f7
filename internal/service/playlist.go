package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
)

type PlaylistService struct {
	playlists PlaylistStore
	videos    existenceChecker
	users     existenceChecker
}

func NewPlaylistService(playlists PlaylistStore, videos, users existenceChecker) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, users: users}
}

func (s *PlaylistService) Create(ctx context.Context, actor, name, description string) (*model.Playlist, error) {
	if err := required(field{"name", name}, field{"description", description}); err != nil {
		return nil, err
	}
	if err := atMost(maxTextLen, field{"name", name}); err != nil {
		return nil, err
	}
	p := &model.Playlist{OwnerID: actor, Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	err := s.playlists.Create(ctx, p)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a playlist with this name already exists")
	}
	if err != nil {
		return nil, apperr.Internal("failed to create playlist", err)
	}
	return p, nil
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	if err := mustExist(ctx, s.users, userID, "user"); err != nil {
		return nil, err
	}
	out, err := s.playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list playlists", err)
	}
	return out, nil
}

// Get returns a playlist with the videos viewerID may see.
func (s *PlaylistService) Get(ctx context.Context, id, viewerID string) (*model.PlaylistDetail, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("playlist not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load playlist", err)
	}
	videos, err := s.playlists.Videos(ctx, id, viewerID)
	if err != nil {
		return nil, apperr.Internal("failed to load playlist videos", err)
	}
	return &model.PlaylistDetail{Playlist: *p, Videos: videos}, nil
}

func (s *PlaylistService) Update(ctx context.Context, id, actor, name, description string) (*model.Playlist, error) {
	if strings.TrimSpace(name) == "" && strings.TrimSpace(description) == "" {
		return nil, apperr.Validation("name or description is required")
	}
	if err := atMost(maxTextLen, field{"name", name}); err != nil {
		return nil, err
	}
	if _, err := loadOwned(ctx, s.playlists.GetByID, id, actor, "playlist"); err != nil {
		return nil, err
	}
	err := s.playlists.Update(ctx, id, actor, name, description)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a playlist with this name already exists")
	}
	if err != nil {
		return nil, mutationErr("update playlist", err)
	}
	return s.reload(ctx, id)
}

func (s *PlaylistService) Delete(ctx context.Context, id, actor string) error {
	if _, err := loadOwned(ctx, s.playlists.GetByID, id, actor, "playlist"); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id, actor); err != nil {
		return mutationErr("delete playlist", err)
	}
	return nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, actor string) (*model.Playlist, error) {
	if _, err := loadOwned(ctx, s.playlists.GetByID, playlistID, actor, "playlist"); err != nil {
		return nil, err
	}
	if err := mustExist(ctx, s.videos, videoID, "video"); err != nil {
		return nil, err
	}
	err := s.playlists.AddVideo(ctx, playlistID, videoID, actor)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperr.Conflict("video is already in the playlist")
	case err != nil:
		return nil, mutationErr("add video to playlist", err)
	}
	return s.reload(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, actor string) (*model.Playlist, error) {
	if _, err := loadOwned(ctx, s.playlists.GetByID, playlistID, actor, "playlist"); err != nil {
		return nil, err
	}
	err := s.playlists.RemoveVideo(ctx, playlistID, videoID, actor)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("video is not in the playlist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to remove video from playlist", err)
	}
	return s.reload(ctx, playlistID)
}

func (s *PlaylistService) reload(ctx context.Context, id string) (*model.Playlist, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to reload playlist", err)
	}
	return p, nil
}
