package service

import (
	"context"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
)

// videoLister is the part of VideoStore the dashboard reads.
type videoLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error)
}

type DashboardService struct {
	stats  DashboardStore
	videos videoLister
}

func NewDashboardService(stats DashboardStore, videos videoLister) *DashboardService {
	return &DashboardService{stats: stats, videos: videos}
}

func (s *DashboardService) Stats(ctx context.Context, ownerID string) (model.ChannelStats, error) {
	st, err := s.stats.Stats(ctx, ownerID)
	if err != nil {
		return model.ChannelStats{}, apperr.Internal("failed to load channel stats", err)
	}
	return st, nil
}

// Videos lists all of the owner's videos, published or not.
func (s *DashboardService) Videos(ctx context.Context, ownerID string) ([]model.Video, error) {
	v, err := s.videos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("failed to load channel videos", err)
	}
	return v, nil
}
