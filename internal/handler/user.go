package handler // handler package contains the HTTP handlers for each resource

import (
	"context"  // context for the service interfaces
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/apperr"  // typed application errors
	"github.com/iliyamo/vidtube/internal/model"   // model holds row and response types
	"github.com/iliyamo/vidtube/internal/service" // service holds the controllers
	"github.com/iliyamo/vidtube/internal/storage" // uploaded file assets
)

// SessionAPI is implemented by service.SessionService.
type SessionAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, in service.LoginInput, sb service.SessionBoundary) (*service.LoginResult, error)
	Refresh(ctx context.Context, bodyToken string, sb service.SessionBoundary) (*service.TokenPair, error)
	Logout(ctx context.Context, userID string, sb service.SessionBoundary) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// ProfileAPI is implemented by service.UserService.
type ProfileAPI interface {
	Current(ctx context.Context, userID string) (*model.User, error)
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID string, a *storage.Asset) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userID string, a *storage.Asset) (*model.User, error)
	Channel(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error)
	History(ctx context.Context, userID string) ([]model.VideoWithOwner, error)
}

// UserHandler serves /users.
type UserHandler struct {
	Sessions     SessionAPI
	Profiles     ProfileAPI
	CookieSecure bool
}

func NewUserHandler(sessions SessionAPI, profiles ProfileAPI, cookieSecure bool) *UserHandler {
	return &UserHandler{Sessions: sessions, Profiles: profiles, CookieSecure: cookieSecure}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Register: multipart form with an avatar and an optional cover image.
func (h *UserHandler) Register(c echo.Context) error {
	avatar, closeAvatar, err := formFile(c, "avatar")
	if err != nil {
		return err
	}
	defer closeAvatar()
	cover, closeCover, err := formFile(c, "coverImage")
	if err != nil {
		return err
	}
	defer closeCover()

	u, err := h.Sessions.Register(c.Request().Context(), service.RegisterInput{
		Username:   c.FormValue("username"),
		Email:      c.FormValue("email"),
		FullName:   c.FormValue("fullName"),
		Password:   c.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, u, "user registered successfully")
}

func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.Sessions.Login(c.Request().Context(), service.LoginInput{
		Username: req.Username, Email: req.Email, Password: req.Password,
	}, newCookieBoundary(c, h.CookieSecure))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res, "user logged in successfully")
}

func (h *UserHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c.Request().Context(), actor(c), newCookieBoundary(c, h.CookieSecure)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "user logged out")
}

// Refresh accepts the refresh token from the cookie or, failing that, the body.
func (h *UserHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	pair, err := h.Sessions.Refresh(c.Request().Context(), req.RefreshToken, newCookieBoundary(c, h.CookieSecure))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pair, "access token refreshed")
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Sessions.ChangePassword(c.Request().Context(), actor(c), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, empty, "password changed successfully")
}

func (h *UserHandler) CurrentUser(c echo.Context) error {
	u, err := h.Profiles.Current(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u, "current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(c echo.Context) error {
	var req updateAccountReq
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.Profiles.UpdateAccount(c.Request().Context(), actor(c), req.FullName, req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u, "account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", h.Profiles.UpdateAvatar)
}

func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "coverImage", h.Profiles.UpdateCoverImage)
}

func (h *UserHandler) updateImage(c echo.Context, field string,
	update func(context.Context, string, *storage.Asset) (*model.User, error)) error {
	a, closeFile, err := formFile(c, field)
	if err != nil {
		return err
	}
	defer closeFile()
	if a == nil {
		return apperr.Validation(field + " file is missing")
	}
	u, err := update(c.Request().Context(), actor(c), a)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u, field+" updated successfully")
}

func (h *UserHandler) Channel(c echo.Context) error {
	p, err := h.Profiles.Channel(c.Request().Context(), c.Param("username"), actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p, "user channel fetched successfully")
}

func (h *UserHandler) History(c echo.Context) error {
	v, err := h.Profiles.History(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v, "watch history fetched successfully")
}
