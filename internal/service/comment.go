package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
)

type CommentService struct {
	comments CommentStore
	videos   existenceChecker
}

func NewCommentService(comments CommentStore, videos existenceChecker) *CommentService {
	return &CommentService{comments: comments, videos: videos}
}

func (s *CommentService) List(ctx context.Context, videoID string, page, limit int) (model.Page[model.CommentWithOwner], error) {
	page, limit = pageParams(page, limit)
	if err := mustExist(ctx, s.videos, videoID, "video"); err != nil {
		return model.Page[model.CommentWithOwner]{}, err
	}
	docs, total, err := s.comments.ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		return model.Page[model.CommentWithOwner]{}, apperr.Internal("failed to list comments", err)
	}
	return model.NewPage(docs, total, page, limit), nil
}

func (s *CommentService) Add(ctx context.Context, videoID, actor, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if err := mustExist(ctx, s.videos, videoID, "video"); err != nil {
		return nil, err
	}
	c := &model.Comment{VideoID: videoID, OwnerID: actor, Content: content}
	err := s.comments.Create(ctx, c)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to add comment", err)
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, id, actor, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if _, err := loadOwned(ctx, s.comments.GetByID, id, actor, "comment"); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, id, actor, content); err != nil {
		return nil, mutationErr("update comment", err)
	}
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to reload comment", err)
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id, actor string) error {
	if _, err := loadOwned(ctx, s.comments.GetByID, id, actor, "comment"); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id, actor); err != nil {
		return mutationErr("delete comment", err)
	}
	return nil
}

// mustExist rejects ids that match no row with NotFound.
func mustExist(ctx context.Context, c existenceChecker, id, what string) error {
	ok, err := c.Exists(ctx, id)
	if err != nil {
		return apperr.Internal("failed to look up "+what, err)
	}
	if !ok {
		return apperr.NotFound(what + " not found")
	}
	return nil
}
