// Package service holds the session controller, the ownership guard and
// the resource controllers. Services depend on the narrow store
// interfaces below; the repository package provides the MySQL
// implementations.
package service

import (
	"context"

	"github.com/iliyamo/vidtube/internal/model"
)

// CredentialStore is what the session controller needs from the users table.
type CredentialStore interface {
	Create(ctx context.Context, u *model.User) error
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	SetRefreshToken(ctx context.Context, id, hash string) error
	SwapRefreshToken(ctx context.Context, id, oldHash, newHash string) (bool, error)
	ClearRefreshToken(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

// ProfileStore backs account and channel operations.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateAccount(ctx context.Context, id, fullName, email string) error
	UpdateAvatar(ctx context.Context, id, url, key string) error
	UpdateCoverImage(ctx context.Context, id, url, key string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]model.VideoWithOwner, error)
}

// existenceChecker reports whether a row with id exists.
type existenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type VideoStore interface {
	existenceChecker
	Create(ctx context.Context, v *model.Video) error
	GetByID(ctx context.Context, id string) (*model.Video, error)
	GetWithOwner(ctx context.Context, id string) (*model.VideoWithOwner, error)
	List(ctx context.Context, q model.VideoQuery) ([]model.VideoWithOwner, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error)
	Update(ctx context.Context, id, ownerID, title, description, thumbURL, thumbKey string) error
	Delete(ctx context.Context, id, ownerID string) error
	TogglePublish(ctx context.Context, id, ownerID string) (bool, error)
	RecordView(ctx context.Context, videoID, viewerID string) error
}

type CommentStore interface {
	existenceChecker
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByVideo(ctx context.Context, videoID string, page, limit int) ([]model.CommentWithOwner, int64, error)
	Update(ctx context.Context, id, ownerID, content string) error
	Delete(ctx context.Context, id, ownerID string) error
}

type TweetStore interface {
	existenceChecker
	Create(ctx context.Context, t *model.Tweet) error
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.TweetWithOwner, error)
	Update(ctx context.Context, id, ownerID, content string) error
	Delete(ctx context.Context, id, ownerID string) error
}

type PlaylistStore interface {
	Create(ctx context.Context, p *model.Playlist) error
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error)
	Videos(ctx context.Context, playlistID, viewerID string) ([]model.VideoWithOwner, error)
	Update(ctx context.Context, id, ownerID, name, description string) error
	Delete(ctx context.Context, id, ownerID string) error
	AddVideo(ctx context.Context, playlistID, videoID, ownerID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID, ownerID string) error
}

type LikeStore interface {
	Toggle(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]model.LikedVideo, error)
}

type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]model.UserSummary, error)
	Channels(ctx context.Context, subscriberID string) ([]model.UserSummary, error)
}

type DashboardStore interface {
	Stats(ctx context.Context, ownerID string) (model.ChannelStats, error)
}
