package service

import (
	"context"
	"errors"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
)

type SubscriptionService struct {
	subs  SubscriptionStore
	users existenceChecker
}

func NewSubscriptionService(subs SubscriptionStore, users existenceChecker) *SubscriptionService {
	return &SubscriptionService{subs: subs, users: users}
}

// Toggle subscribes actor to channelID, or unsubscribes when already
// subscribed, and returns the new state.
func (s *SubscriptionService) Toggle(ctx context.Context, actor, channelID string) (bool, error) {
	if actor == channelID {
		return false, apperr.Validation("you cannot subscribe to your own channel")
	}
	if err := mustExist(ctx, s.users, channelID, "channel"); err != nil {
		return false, err
	}
	on, err := s.subs.Toggle(ctx, actor, channelID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, apperr.NotFound("channel not found")
	}
	if err != nil {
		return false, apperr.Internal("failed to toggle subscription", err)
	}
	return on, nil
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) ([]model.UserSummary, error) {
	if err := mustExist(ctx, s.users, channelID, "channel"); err != nil {
		return nil, err
	}
	out, err := s.subs.Subscribers(ctx, channelID)
	if err != nil {
		return nil, apperr.Internal("failed to load subscribers", err)
	}
	return out, nil
}

func (s *SubscriptionService) Channels(ctx context.Context, subscriberID string) ([]model.UserSummary, error) {
	if err := mustExist(ctx, s.users, subscriberID, "user"); err != nil {
		return nil, err
	}
	out, err := s.subs.Channels(ctx, subscriberID)
	if err != nil {
		return nil, apperr.Internal("failed to load subscribed channels", err)
	}
	return out, nil
}
