package service

import (
	"context"
	"errors"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
)

type LikeService struct {
	likes   LikeStore
	targets map[model.LikeTarget]existenceChecker
}

func NewLikeService(likes LikeStore, videos, comments, tweets existenceChecker) *LikeService {
	return &LikeService{
		likes: likes,
		targets: map[model.LikeTarget]existenceChecker{
			model.LikeVideo:   videos,
			model.LikeComment: comments,
			model.LikeTweet:   tweets,
		},
	}
}

// Toggle likes or unlikes a target for actor and returns the new state.
func (s *LikeService) Toggle(ctx context.Context, actor string, target model.LikeTarget, id string) (bool, error) {
	checker, ok := s.targets[target]
	if !ok {
		return false, apperr.Validation("unknown like target")
	}
	what := string(target)
	if err := mustExist(ctx, checker, id, what); err != nil {
		return false, err
	}
	liked, err := s.likes.Toggle(ctx, actor, target, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, apperr.NotFound(what + " not found")
	}
	if err != nil {
		return false, apperr.Internal("failed to toggle like", err)
	}
	return liked, nil
}

func (s *LikeService) LikedVideos(ctx context.Context, actor string) ([]model.LikedVideo, error) {
	v, err := s.likes.LikedVideos(ctx, actor)
	if err != nil {
		return nil, apperr.Internal("failed to load liked videos", err)
	}
	return v, nil
}
