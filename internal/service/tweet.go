package service

import (
	"context"
	"strings"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
)

type TweetService struct {
	tweets TweetStore
	users  existenceChecker
}

func NewTweetService(tweets TweetStore, users existenceChecker) *TweetService {
	return &TweetService{tweets: tweets, users: users}
}

func (s *TweetService) Create(ctx context.Context, actor, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	t := &model.Tweet{OwnerID: actor, Content: content}
	if err := s.tweets.Create(ctx, t); err != nil {
		return nil, apperr.Internal("failed to create tweet", err)
	}
	return t, nil
}

func (s *TweetService) ListByUser(ctx context.Context, userID string) ([]model.TweetWithOwner, error) {
	if err := mustExist(ctx, s.users, userID, "user"); err != nil {
		return nil, err
	}
	out, err := s.tweets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list tweets", err)
	}
	return out, nil
}

func (s *TweetService) Update(ctx context.Context, id, actor, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if _, err := loadOwned(ctx, s.tweets.GetByID, id, actor, "tweet"); err != nil {
		return nil, err
	}
	if err := s.tweets.Update(ctx, id, actor, content); err != nil {
		return nil, mutationErr("update tweet", err)
	}
	t, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to reload tweet", err)
	}
	return t, nil
}

func (s *TweetService) Delete(ctx context.Context, id, actor string) error {
	if _, err := loadOwned(ctx, s.tweets.GetByID, id, actor, "tweet"); err != nil {
		return err
	}
	if err := s.tweets.Delete(ctx, id, actor); err != nil {
		return mutationErr("delete tweet", err)
	}
	return nil
}
