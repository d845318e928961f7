package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vidtube/internal/model"
)

func TestLikeToggleOnThenOff(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLikeRepo(db)

	mock.ExpectExec(`DELETE FROM likes WHERE liked_by = \? AND video_id = \?`).
		WithArgs("u-1", "v-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO likes \(id, liked_by, video_id, created_at\)`).
		WithArgs(sqlmock.AnyArg(), "u-1", "v-1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM likes WHERE liked_by = \? AND video_id = \?`).
		WithArgs("u-1", "v-1").WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo.Toggle(context.Background(), "u-1", model.LikeVideo, "v-1")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.Toggle(context.Background(), "u-1", model.LikeVideo, "v-1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikeToggleRacingInsertCountsAsLiked(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLikeRepo(db)

	mock.ExpectExec(`DELETE FROM likes WHERE liked_by = \? AND comment_id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO likes \(id, liked_by, comment_id, created_at\)`).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	liked, err := repo.Toggle(context.Background(), "u-1", model.LikeComment, "c-1")
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestLikeToggleMissingTarget(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLikeRepo(db)

	mock.ExpectExec(`DELETE FROM likes WHERE liked_by = \? AND tweet_id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO likes`).
		WillReturnError(&mysql.MySQLError{Number: 1452})

	_, err := repo.Toggle(context.Background(), "u-1", model.LikeTweet, "t-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeToggleUnknownTarget(t *testing.T) {
	db, _ := newMock(t)
	_, err := NewLikeRepo(db).Toggle(context.Background(), "u-1", model.LikeTarget("playlist"), "p-1")
	assert.Error(t, err)
}

func TestSubscriptionToggle(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSubscriptionRepo(db)

	mock.ExpectExec(`DELETE FROM subscriptions`).WithArgs("u-1", "c-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO subscriptions`).
		WithArgs("u-1", "c-1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM subscriptions`).WithArgs("u-1", "c-1").WillReturnResult(sqlmock.NewResult(0, 1))

	on, err := repo.Toggle(context.Background(), "u-1", "c-1")
	require.NoError(t, err)
	assert.True(t, on)
	on, err = repo.Toggle(context.Background(), "u-1", "c-1")
	require.NoError(t, err)
	assert.False(t, on)
}
