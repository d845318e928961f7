package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/queue"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/storage"
)

type VideoService struct {
	videos VideoStore
	blobs  storage.BlobStore
	events queue.Publisher
	log    *zap.Logger
}

func NewVideoService(videos VideoStore, blobs storage.BlobStore, events queue.Publisher, log *zap.Logger) *VideoService {
	return &VideoService{videos: videos, blobs: blobs, events: events, log: log}
}

// ListInput is the raw query of the public listing.
type ListInput struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

// List pages through published videos.
func (s *VideoService) List(ctx context.Context, in ListInput) (model.Page[model.VideoWithOwner], error) {
	page, limit := pageParams(in.Page, in.Limit)
	q := model.VideoQuery{Query: in.Query, OwnerID: in.UserID, Page: page, Limit: limit, SortBy: "createdAt", SortDesc: true}
	if in.SortBy != "" {
		switch in.SortBy {
		case "createdAt", "views", "duration", "title":
			q.SortBy = in.SortBy
		default:
			return model.Page[model.VideoWithOwner]{}, apperr.Validation("sortBy must be one of createdAt, views, duration, title")
		}
	}
	switch strings.ToLower(in.SortType) {
	case "", "desc":
	case "asc":
		q.SortDesc = false
	default:
		return model.Page[model.VideoWithOwner]{}, apperr.Validation("sortType must be asc or desc")
	}

	docs, total, err := s.videos.List(ctx, q)
	if err != nil {
		return model.Page[model.VideoWithOwner]{}, apperr.Internal("failed to list videos", err)
	}
	return model.NewPage(docs, total, page, limit), nil
}

type PublishInput struct {
	Title       string
	Description string
	Duration    float64 // seconds, as reported by the client
	VideoFile   *storage.Asset
	Thumbnail   *storage.Asset
}

// Publish uploads a video and its thumbnail and creates a published video.
func (s *VideoService) Publish(ctx context.Context, ownerID string, in PublishInput) (*model.Video, error) {
	if err := required(field{"title", in.Title}, field{"description", in.Description}); err != nil {
		return nil, err
	}
	if err := atMost(maxTextLen, field{"title", in.Title}); err != nil {
		return nil, err
	}
	if in.VideoFile == nil || in.Thumbnail == nil {
		return nil, apperr.Validation("video file and thumbnail are required")
	}
	if !in.VideoFile.IsVideo() {
		return nil, apperr.Validation("videoFile must be a video")
	}
	if !in.Thumbnail.IsImage() {
		return nil, apperr.Validation("thumbnail must be an image")
	}
	if in.Duration < 0 {
		return nil, apperr.Validation("duration must not be negative")
	}

	file, err := s.blobs.Upload(ctx, storage.FolderVideos, *in.VideoFile)
	if err != nil {
		return nil, apperr.Internal("failed to upload video file", err)
	}
	thumb, err := s.blobs.Upload(ctx, storage.FolderThumbnails, *in.Thumbnail)
	if err != nil {
		destroyAll(ctx, s.blobs, s.log, file.PublicID)
		return nil, apperr.Internal("failed to upload thumbnail", err)
	}

	v := &model.Video{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		VideoFile:   file.URL,
		VideoFileID: file.PublicID,
		Thumbnail:   thumb.URL,
		ThumbnailID: thumb.PublicID,
		Duration:    in.Duration,
		IsPublished: true,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		destroyAll(ctx, s.blobs, s.log, file.PublicID, thumb.PublicID)
		return nil, apperr.Internal("failed to save video", err)
	}
	s.events.VideoPublished(ctx, queue.VideoPublishedEvent{
		VideoID: v.ID, OwnerID: v.OwnerID, Title: v.Title, PublishedAt: v.CreatedAt,
	})
	return v, nil
}

// Get returns a video to viewerID and counts the view. Unpublished videos
// exist only for their owner.
func (s *VideoService) Get(ctx context.Context, id, viewerID string) (*model.VideoWithOwner, error) {
	v, err := s.videos.GetWithOwner(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load video", err)
	}
	if !v.IsPublished && v.OwnerID != viewerID {
		return nil, apperr.NotFound("video not found")
	}
	if err := s.videos.RecordView(ctx, id, viewerID); err != nil {
		s.log.Warn("record view failed", zap.String("video_id", id), zap.Error(err))
	} else {
		v.Views++
	}
	return v, nil
}

type UpdateVideoInput struct {
	Title       string
	Description string
	Thumbnail   *storage.Asset // optional replacement
}

func (s *VideoService) Update(ctx context.Context, id, actor string, in UpdateVideoInput) (*model.Video, error) {
	if err := required(field{"title", in.Title}, field{"description", in.Description}); err != nil {
		return nil, err
	}
	if err := atMost(maxTextLen, field{"title", in.Title}); err != nil {
		return nil, err
	}
	if in.Thumbnail != nil && !in.Thumbnail.IsImage() {
		return nil, apperr.Validation("thumbnail must be an image")
	}
	v, err := loadOwned(ctx, s.videos.GetByID, id, actor, "video")
	if err != nil {
		return nil, err
	}

	var thumb storage.UploadResult
	if in.Thumbnail != nil {
		if thumb, err = s.blobs.Upload(ctx, storage.FolderThumbnails, *in.Thumbnail); err != nil {
			return nil, apperr.Internal("failed to upload thumbnail", err)
		}
	}
	err = s.videos.Update(ctx, id, actor, strings.TrimSpace(in.Title), strings.TrimSpace(in.Description), thumb.URL, thumb.PublicID)
	if err != nil {
		destroyAll(ctx, s.blobs, s.log, thumb.PublicID)
		return nil, mutationErr("update video", err)
	}
	if thumb.PublicID != "" {
		destroyAll(ctx, s.blobs, s.log, v.ThumbnailID)
	}

	updated, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to reload video", err)
	}
	return updated, nil
}

// Delete removes the video row and then its blobs. Comments, likes,
// playlist entries and history go with the row.
func (s *VideoService) Delete(ctx context.Context, id, actor string) error {
	v, err := loadOwned(ctx, s.videos.GetByID, id, actor, "video")
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, id, actor); err != nil {
		return mutationErr("delete video", err)
	}
	destroyAll(ctx, s.blobs, s.log, v.VideoFileID, v.ThumbnailID)
	return nil
}

// TogglePublish flips the publish flag and returns the new value.
func (s *VideoService) TogglePublish(ctx context.Context, id, actor string) (bool, error) {
	v, err := loadOwned(ctx, s.videos.GetByID, id, actor, "video")
	if err != nil {
		return false, err
	}
	published, err := s.videos.TogglePublish(ctx, id, actor)
	if err != nil {
		return false, mutationErr("toggle publish status", err)
	}
	if published {
		s.events.VideoPublished(ctx, queue.VideoPublishedEvent{
			VideoID: v.ID, OwnerID: v.OwnerID, Title: v.Title, PublishedAt: time.Now().UTC(),
		})
	}
	return published, nil
}
