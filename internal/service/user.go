package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/storage"
)

// UserService covers the signed-in user's account and public channel pages.
type UserService struct {
	users ProfileStore
	blobs storage.BlobStore
	log   *zap.Logger
}

func NewUserService(users ProfileStore, blobs storage.BlobStore, log *zap.Logger) *UserService {
	return &UserService{users: users, blobs: blobs, log: log}
}

// Current loads the account behind an access token. The token may outlive
// the account, hence NotFound.
func (s *UserService) Current(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return u, nil
}

// UpdateAccount changes full name and/or email.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*model.User, error) {
	fullName, email = strings.TrimSpace(fullName), strings.TrimSpace(email)
	if fullName == "" && email == "" {
		return nil, apperr.Validation("fullName or email is required")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, apperr.Validation("invalid email address")
	}
	if err := atMost(maxTextLen, field{"fullName", fullName}, field{"email", email}); err != nil {
		return nil, err
	}
	err := s.users.UpdateAccount(ctx, userID, fullName, email)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperr.Conflict("email is already in use")
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NotFound("user not found")
	case err != nil:
		return nil, apperr.Internal("failed to update account", err)
	}
	return s.Current(ctx, userID)
}

// UpdateAvatar replaces the avatar and destroys the previous asset.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, a *storage.Asset) (*model.User, error) {
	return s.replaceImage(ctx, userID, a, "avatar", storage.FolderAvatars,
		func(u *model.User) string { return u.AvatarID }, s.users.UpdateAvatar)
}

// UpdateCoverImage replaces the cover image and destroys the previous one
// if there was any.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, a *storage.Asset) (*model.User, error) {
	return s.replaceImage(ctx, userID, a, "cover image", storage.FolderCovers,
		func(u *model.User) string { return u.CoverImageID }, s.users.UpdateCoverImage)
}

func (s *UserService) replaceImage(ctx context.Context, userID string, a *storage.Asset, what, folder string,
	current func(*model.User) string, save func(ctx context.Context, id, url, key string) error) (*model.User, error) {
	if a == nil {
		return nil, apperr.Validation(what + " file is missing")
	}
	if !a.IsImage() {
		return nil, apperr.Validation(what + " must be an image")
	}
	u, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := current(u)

	up, err := s.blobs.Upload(ctx, folder, *a)
	if err != nil {
		return nil, apperr.Internal("failed to upload "+what, err)
	}
	if err := save(ctx, userID, up.URL, up.PublicID); err != nil {
		destroyAll(ctx, s.blobs, s.log, up.PublicID)
		return nil, apperr.Internal("failed to update "+what, err)
	}
	destroyAll(ctx, s.blobs, s.log, previous)
	return s.Current(ctx, userID)
}

// Channel loads the channel page of username as seen by viewerID ("" for
// anonymous viewers).
func (s *UserService) Channel(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperr.Validation("username is missing")
	}
	p, err := s.users.ChannelProfile(ctx, username, viewerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("channel does not exist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load channel", err)
	}
	return p, nil
}

func (s *UserService) History(ctx context.Context, userID string) ([]model.VideoWithOwner, error) {
	h, err := s.users.WatchHistory(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load watch history", err)
	}
	return h, nil
}
