package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/handler" // HTTP handlers
)

func registerSubscriptions(r *echo.Group, h *handler.SubscriptionHandler, g Guards) {
	r.POST("/c/:channelId", h.Toggle, g.Auth)
	r.GET("/c/:channelId", h.Subscribers)
	r.GET("/u/:subscriberId", h.Channels)
}

func registerPlaylists(r *echo.Group, h *handler.PlaylistHandler, g Guards) {
	r.POST("", h.Create, g.Auth)
	r.GET("/user/:userId", h.ListByUser)
	r.GET("/:playlistId", h.Get, g.Optional)
	r.PATCH("/:playlistId", h.Update, g.Auth)
	r.DELETE("/:playlistId", h.Delete, g.Auth)
	r.PATCH("/add/:videoId/:playlistId", h.AddVideo, g.Auth)
	r.PATCH("/remove/:videoId/:playlistId", h.RemoveVideo, g.Auth)
}

// registerDashboard expects r to be authenticated already.
func registerDashboard(r *echo.Group, h *handler.DashboardHandler) {
	r.GET("/stats", h.Stats)
	r.GET("/videos", h.Videos)
}
