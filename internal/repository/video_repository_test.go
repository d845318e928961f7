package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vidtube/internal/model"
)

func TestTogglePublish(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVideoRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT is_published FROM videos WHERE id = \? AND owner_id = \? FOR UPDATE`).
		WithArgs("v-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_published"}).AddRow(true))
	mock.ExpectExec(`UPDATE videos SET is_published = \?`).
		WithArgs(false, sqlmock.AnyArg(), "v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	published, err := repo.TogglePublish(context.Background(), "v-1", "u-1")
	require.NoError(t, err)
	assert.False(t, published)
}

func TestTogglePublishNotOwned(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVideoRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("v-1", "intruder").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.TogglePublish(context.Background(), "v-1", "intruder")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideoDeleteRequiresOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVideoRepo(db)

	mock.ExpectExec(`DELETE FROM videos WHERE id = \? AND owner_id = \?`).
		WithArgs("v-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "v-1", "u-2"), ErrNotFound)
}

func TestVideoListFiltersAndSorts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVideoRepo(db)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM videos v WHERE v.is_published = TRUE AND \(LOWER\(v.title\) LIKE \?`).
		WithArgs("%cats%", "%cats%").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(11))
	mock.ExpectQuery(`ORDER BY v.views DESC, v.id\s+LIMIT \? OFFSET \?`).
		WithArgs("%cats%", "%cats%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "title", "description", "video_url", "video_id", "thumbnail_url", "thumbnail_id",
			"duration", "views", "is_published", "created_at", "updated_at", "uid", "username", "full_name", "avatar",
		}).AddRow("v-11", "u-1", "Cats", "d", "url", "key", "t", "tk", 12.5, 4, true, ts, ts, "u-1", "ana", "Ana", "a"))

	docs, total, err := repo.List(context.Background(), model.VideoQuery{
		Query: " Cats ", SortBy: "views", SortDesc: true, Page: 2, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, docs, 1)
	assert.Equal(t, "ana", docs[0].OwnerDetails.Username)
	assert.Equal(t, 12.5, docs[0].Duration)
}

func TestPlaylistAddVideo(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlaylistRepo(db)

	mock.ExpectExec(`INSERT INTO playlist_videos`).
		WithArgs("v-1", sqlmock.AnyArg(), "p-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO playlist_videos`).
		WithArgs("v-1", sqlmock.AnyArg(), "p-1", "u-1").
		WillReturnError(&mysql.MySQLError{Number: 1062})

	require.NoError(t, repo.AddVideo(context.Background(), "p-1", "v-1", "u-1"))
	assert.ErrorIs(t, repo.AddVideo(context.Background(), "p-1", "v-1", "u-1"), ErrDuplicate)
}

func TestDashboardStats(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDashboardRepo(db)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM subscriptions WHERE channel_id = \?\)`).
		WithArgs("u-1", "u-1", "u-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}).AddRow(5, 2, 300, 7))

	s, err := repo.Stats(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, model.ChannelStats{TotalSubscribers: 5, TotalVideos: 2, TotalViews: 300, TotalLikes: 7}, s)
}
