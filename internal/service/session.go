package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/queue"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/storage"
	"github.com/iliyamo/vidtube/internal/utils"
)

// SessionBoundary is the client-held channel that carries tokens between
// requests (cookies over HTTP). It is passed into each call rather than
// read from ambient state.
type SessionBoundary interface {
	// RefreshToken returns the refresh token the client presented, or "".
	RefreshToken() string
	Issue(access utils.AccessToken, refresh utils.RefreshToken)
	Clear()
}

// SessionService implements register, login, refresh, logout and
// password change over the credential store and token service.
type SessionService struct {
	users  CredentialStore
	tokens *utils.Tokens
	blobs  storage.BlobStore
	events queue.Publisher
	cost   int
	log    *zap.Logger
}

func NewSessionService(users CredentialStore, tokens *utils.Tokens, blobs storage.BlobStore,
	events queue.Publisher, bcryptCost int, log *zap.Logger) *SessionService {
	return &SessionService{users: users, tokens: tokens, blobs: blobs, events: events, cost: bcryptCost, log: log}
}

type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *storage.Asset // required
	CoverImage *storage.Asset // optional
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// TokenPair is the body of a successful refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account. The returned user carries no credential
// fields in its JSON form.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := required(
		field{"fullName", in.FullName},
		field{"email", in.Email},
		field{"username", in.Username},
		field{"password", in.Password},
	); err != nil {
		return nil, err
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperr.Validation("invalid email address")
	}
	if len(in.Password) > 72 {
		return nil, apperr.Validation("password must be at most 72 bytes")
	}
	if err := atMost(maxUsernameLen, field{"username", in.Username}); err != nil {
		return nil, err
	}
	if err := atMost(maxTextLen, field{"fullName", in.FullName}, field{"email", in.Email}); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, apperr.Internal("failed to check existing users", err)
	}
	if taken {
		return nil, apperr.Conflict("user with email or username already exists")
	}

	if in.Avatar == nil {
		return nil, apperr.Validation("avatar file is required")
	}
	if !in.Avatar.IsImage() {
		return nil, apperr.Validation("avatar must be an image")
	}
	if in.CoverImage != nil && !in.CoverImage.IsImage() {
		return nil, apperr.Validation("cover image must be an image")
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	avatar, err := s.blobs.Upload(ctx, storage.FolderAvatars, *in.Avatar)
	if err != nil {
		return nil, apperr.Internal("failed to upload avatar", err)
	}
	uploaded := []string{avatar.PublicID}
	var cover storage.UploadResult
	if in.CoverImage != nil {
		if cover, err = s.blobs.Upload(ctx, storage.FolderCovers, *in.CoverImage); err != nil {
			s.cleanup(ctx, uploaded...)
			return nil, apperr.Internal("failed to upload cover image", err)
		}
		uploaded = append(uploaded, cover.PublicID)
	}

	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Avatar:       avatar.URL,
		AvatarID:     avatar.PublicID,
		CoverImage:   cover.URL,
		CoverImageID: cover.PublicID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		s.cleanup(ctx, uploaded...)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("user with email or username already exists")
		}
		return nil, apperr.Internal("something went wrong while registering the user", err)
	}

	s.events.UserRegistered(ctx, queue.UserRegisteredEvent{
		UserID: u.ID, Username: u.Username, Email: u.Email, RegisteredAt: u.CreatedAt,
	})
	return u, nil
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Login verifies credentials, rotates the stored refresh token and hands
// the new pair to sb.
func (s *SessionService) Login(ctx context.Context, in LoginInput, sb SessionBoundary) (*LoginResult, error) {
	if strings.TrimSpace(in.Username) == "" && strings.TrimSpace(in.Email) == "" {
		return nil, apperr.Validation("username or email is required")
	}
	if in.Password == "" {
		return nil, apperr.Validation("password is required")
	}

	u, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return nil, apperr.Unauthorized("invalid user credentials")
	}

	access, refresh, err := s.issuePair(u)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw)); err != nil {
		return nil, apperr.Internal("failed to store refresh token", err)
	}
	sb.Issue(access, refresh)
	return &LoginResult{User: u, AccessToken: access.Token, RefreshToken: refresh.Raw}, nil
}

// Refresh exchanges a refresh token for a new pair. The boundary-carried
// token wins over bodyToken. A token that verifies but is no longer the
// stored one (already rotated, or logged out) is rejected.
func (s *SessionService) Refresh(ctx context.Context, bodyToken string, sb SessionBoundary) (*TokenPair, error) {
	raw := sb.RefreshToken()
	if raw == "" {
		raw = strings.TrimSpace(bodyToken)
	}
	if raw == "" {
		return nil, apperr.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.Verify(raw, utils.KindRefresh)
	if err != nil {
		if errors.Is(err, utils.ErrSigningKey) {
			return nil, apperr.Internal("token verification unavailable", err)
		}
		return nil, apperr.Wrap(apperr.KindTokenInvalid, "invalid refresh token", err)
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.TokenInvalid("invalid refresh token")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	presented := utils.HashRefreshRaw(raw)
	if u.RefreshTokenHash == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(u.RefreshTokenHash)) != 1 {
		return nil, apperr.TokenInvalid("refresh token is expired or used")
	}

	access, refresh, err := s.issuePair(u)
	if err != nil {
		return nil, err
	}
	swapped, err := s.users.SwapRefreshToken(ctx, u.ID, presented, utils.HashRefreshRaw(refresh.Raw))
	if err != nil {
		return nil, apperr.Internal("failed to rotate refresh token", err)
	}
	if !swapped {
		// A concurrent refresh or logout got there first.
		return nil, apperr.TokenInvalid("refresh token is expired or used")
	}
	sb.Issue(access, refresh)
	return &TokenPair{AccessToken: access.Token, RefreshToken: refresh.Raw}, nil
}

// Logout forgets the stored refresh token and clears the boundary.
func (s *SessionService) Logout(ctx context.Context, userID string, sb SessionBoundary) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return apperr.Internal("failed to clear refresh token", err)
	}
	sb.Clear()
	return nil
}

// ChangePassword replaces the password hash after checking the old
// password. Tokens are not re-issued.
func (s *SessionService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := required(field{"oldPassword", oldPassword}, field{"newPassword", newPassword}); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Internal("failed to load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, oldPassword) {
		return apperr.Unauthorized("invalid old password")
	}
	hash, err := utils.HashPassword(newPassword, s.cost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return apperr.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Internal("failed to update password", err)
	}
	return nil
}

func (s *SessionService) issuePair(u *model.User) (utils.AccessToken, utils.RefreshToken, error) {
	access, err := s.tokens.IssueAccess(utils.Principal{
		ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName,
	})
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, apperr.Internal("failed to sign access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, apperr.Internal("failed to sign refresh token", err)
	}
	return access, refresh, nil
}

// cleanup destroys blobs uploaded for a request that then failed.
func (s *SessionService) cleanup(ctx context.Context, keys ...string) {
	destroyAll(ctx, s.blobs, s.log, keys...)
}

// destroyAll removes blobs on a best-effort basis; failures are logged.
func destroyAll(ctx context.Context, blobs storage.BlobStore, log *zap.Logger, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, k := range keys {
		if k == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if _, err := blobs.Destroy(ctx, k); err != nil {
			log.Warn("destroy blob failed", zap.String("key", k), zap.Error(err))
		}
		cancel()
	}
}
