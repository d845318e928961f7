package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/handler" // HTTP handlers
)

// Handlers bundles every resource handler.
type Handlers struct {
	Users         *handler.UserHandler
	Videos        *handler.VideoHandler
	Comments      *handler.CommentHandler
	Likes         *handler.LikeHandler
	Subscriptions *handler.SubscriptionHandler
	Playlists     *handler.PlaylistHandler
	Tweets        *handler.TweetHandler
	Dashboard     *handler.DashboardHandler
}

// Guards are the per-route middlewares. Auth requires an access token,
// Optional identifies the viewer when one is present and ListCache sits
// in front of the public video listing only.
type Guards struct {
	Auth      echo.MiddlewareFunc
	Optional  echo.MiddlewareFunc
	ListCache echo.MiddlewareFunc
}

// Register mounts the whole API under /api/v1 plus the /healthz probe.
func Register(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api/v1")
	api.GET("/healthcheck", handler.Healthcheck)

	registerUsers(api.Group("/users"), h.Users, g)
	registerVideos(api.Group("/videos"), h.Videos, g)
	registerComments(api.Group("/comments"), h.Comments, g)
	registerLikes(api.Group("/likes", g.Auth), h.Likes)
	registerTweets(api.Group("/tweets"), h.Tweets, g)
	registerSubscriptions(api.Group("/subscriptions"), h.Subscriptions, g)
	registerPlaylists(api.Group("/playlist"), h.Playlists, g)
	registerDashboard(api.Group("/dashboard", g.Auth), h.Dashboard)
}

func registerUsers(r *echo.Group, h *handler.UserHandler, g Guards) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh-token", h.Refresh)

	r.POST("/logout", h.Logout, g.Auth)
	r.POST("/change-password", h.ChangePassword, g.Auth)
	r.GET("/current-user", h.CurrentUser, g.Auth)
	r.PATCH("/update-account", h.UpdateAccount, g.Auth)
	r.PATCH("/avatar", h.UpdateAvatar, g.Auth)
	r.PATCH("/cover-image", h.UpdateCoverImage, g.Auth)
	r.GET("/history", h.History, g.Auth)

	r.GET("/c/:username", h.Channel, g.Optional)
}
