package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/storage"
)

func TestCommentDeleteByOtherUserIsRejected(t *testing.T) {
	ctx := context.Background()
	videos := newMemVideos()
	videos.put(model.Video{ID: "v1", OwnerID: "A", IsPublished: true})
	comments := newMemComments()
	svc := NewCommentService(comments, videos)

	c, err := svc.Add(ctx, "v1", "A", "first!")
	require.NoError(t, err)

	err = svc.Delete(ctx, c.ID, "B")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, still := comments.rows[c.ID]
	assert.True(t, still)

	_, err = svc.Update(ctx, c.ID, "B", "hijacked")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, "first!", comments.rows[c.ID].Content)

	updated, err := svc.Update(ctx, c.ID, "A", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, svc.Delete(ctx, c.ID, "A"))
	err = svc.Delete(ctx, c.ID, "A")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCommentOnMissingVideo(t *testing.T) {
	svc := NewCommentService(newMemComments(), newMemVideos())
	_, err := svc.Add(context.Background(), "nope", "A", "hello")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Add(context.Background(), "nope", "A", "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.List(context.Background(), "nope", 1, 10)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestTweetChangesByOtherUserAreRejected(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	require.NoError(t, users.Create(ctx, &model.User{Username: "ana", Email: "a@x.io"}))
	tweets := newMemTweets()
	svc := NewTweetService(tweets, users)

	tw, err := svc.Create(ctx, "user-1", "hello world")
	require.NoError(t, err)

	_, err = svc.Update(ctx, tw.ID, "user-2", "hijacked")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "hello world", tweets.rows[tw.ID].Content)

	err = svc.Delete(ctx, tw.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotOwner)
	_, still := tweets.rows[tw.ID]
	assert.True(t, still)

	updated, err := svc.Update(ctx, tw.ID, "user-1", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	list, err := svc.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, tw.ID, "user-1"))
	err = svc.Delete(ctx, tw.ID, "user-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLikeToggleIsSelfInverse(t *testing.T) {
	ctx := context.Background()
	videos := newMemVideos()
	videos.put(model.Video{ID: "v1", OwnerID: "A", IsPublished: true})
	svc := NewLikeService(newMemToggles(), videos, newMemComments(), newMemComments())

	on, err := svc.Toggle(ctx, "B", model.LikeVideo, "v1")
	require.NoError(t, err)
	assert.True(t, on)
	off, err := svc.Toggle(ctx, "B", model.LikeVideo, "v1")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = svc.Toggle(ctx, "B", model.LikeComment, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Toggle(ctx, "B", model.LikeTarget("playlist"), "v1")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSubscriptionToggle(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	require.NoError(t, users.Create(ctx, &model.User{Username: "chan", Email: "c@x.io"}))
	svc := NewSubscriptionService(memSubs{newMemToggles()}, users)

	_, err := svc.Toggle(ctx, "user-1", "user-1")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Toggle(ctx, "fan", "ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	on, err := svc.Toggle(ctx, "fan", "user-1")
	require.NoError(t, err)
	assert.True(t, on)
	on, err = svc.Toggle(ctx, "fan", "user-1")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestVideoVisibility(t *testing.T) {
	ctx := context.Background()
	videos := newMemVideos()
	videos.put(model.Video{ID: "draft", OwnerID: "A", IsPublished: false})
	svc := NewVideoService(videos, newMemBlobs(), &memEvents{}, zap.NewNop())

	_, err := svc.Get(ctx, "draft", "B")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = svc.Get(ctx, "draft", "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	v, err := svc.Get(ctx, "draft", "A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Views)
}

func TestVideoPublishLifecycle(t *testing.T) {
	ctx := context.Background()
	videos := newMemVideos()
	blobs := newMemBlobs()
	events := &memEvents{}
	svc := NewVideoService(videos, blobs, events, zap.NewNop())

	_, err := svc.Publish(ctx, "A", PublishInput{
		Title: "t", Description: "d",
		VideoFile: asset("v.png", "image/png"), Thumbnail: asset("t.png", "image/png"),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	v, err := svc.Publish(ctx, "A", PublishInput{
		Title: "Intro", Description: "hello", Duration: 12.5,
		VideoFile: asset("v.mp4", "video/mp4"), Thumbnail: asset("t.png", "image/png"),
	})
	require.NoError(t, err)
	assert.True(t, v.IsPublished)
	assert.Len(t, blobs.live, 2)
	require.Len(t, events.published, 1)

	published, err := svc.TogglePublish(ctx, v.ID, "A")
	require.NoError(t, err)
	assert.False(t, published)
	published, err = svc.TogglePublish(ctx, v.ID, "A")
	require.NoError(t, err)
	assert.True(t, published)
	assert.Len(t, events.published, 2)

	_, err = svc.TogglePublish(ctx, v.ID, "B")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(ctx, v.ID, "A", UpdateVideoInput{
		Title: "Intro v2", Description: "hello", Thumbnail: asset("t2.png", "image/png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Intro v2", updated.Title)
	assert.NotEqual(t, v.ThumbnailID, updated.ThumbnailID)
	assert.Contains(t, blobs.destroyed, v.ThumbnailID)

	assert.ErrorIs(t, svc.Delete(ctx, v.ID, "B"), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, v.ID, "A"))
	assert.Empty(t, blobs.live)
}

func TestVideoListValidatesSort(t *testing.T) {
	svc := NewVideoService(newMemVideos(), newMemBlobs(), &memEvents{}, zap.NewNop())
	_, err := svc.List(context.Background(), ListInput{SortBy: "password"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = svc.List(context.Background(), ListInput{SortType: "sideways"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	page, err := svc.List(context.Background(), ListInput{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 1, page.Page)
	assert.NotNil(t, page.Docs)
}

func TestAtMostCountsCharacters(t *testing.T) {
	assert.NoError(t, atMost(maxUsernameLen, field{"username", strings.Repeat("é", 64)}))

	err := atMost(maxUsernameLen, field{"username", strings.Repeat("é", 65)})
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, []string{"username must be at most 64 characters"}, ae.Details)

	_, err = NewPlaylistService(failingPlaylists{}, newMemVideos(), newMemUsers()).
		Create(context.Background(), "A", strings.Repeat("n", 256), "d")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUserUpdateAvatarReplacesBlob(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	blobs := newMemBlobs()
	old, err := blobs.Upload(ctx, storage.FolderAvatars, *asset("a.png", "image/png"))
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, &model.User{Username: "ana", Email: "a@x.io", Avatar: old.URL, AvatarID: old.PublicID}))
	svc := NewUserService(users, blobs, zap.NewNop())

	_, err = svc.UpdateAvatar(ctx, "user-1", asset("a.txt", "text/plain"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	u, err := svc.UpdateAvatar(ctx, "user-1", asset("b.png", "image/png"))
	require.NoError(t, err)
	assert.NotEqual(t, old.URL, u.Avatar)
	assert.Equal(t, []string{old.PublicID}, blobs.destroyed)

	_, err = svc.UpdateAccount(ctx, "user-1", "", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// failingPlaylists reports a duplicate on AddVideo.
type failingPlaylists struct{ PlaylistStore }

func (failingPlaylists) GetByID(context.Context, string) (*model.Playlist, error) {
	return &model.Playlist{ID: "p1", OwnerID: "A"}, nil
}

func (failingPlaylists) AddVideo(context.Context, string, string, string) error {
	return repository.ErrDuplicate
}

func (failingPlaylists) RemoveVideo(context.Context, string, string, string) error {
	return repository.ErrNotFound
}

func TestPlaylistMembershipErrors(t *testing.T) {
	ctx := context.Background()
	videos := newMemVideos()
	videos.put(model.Video{ID: "v1", OwnerID: "A", IsPublished: true})
	svc := NewPlaylistService(failingPlaylists{}, videos, newMemUsers())

	_, err := svc.AddVideo(ctx, "p1", "v1", "A")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.AddVideo(ctx, "p1", "ghost", "A")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.AddVideo(ctx, "p1", "v1", "B")
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.RemoveVideo(ctx, "p1", "v1", "A")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
