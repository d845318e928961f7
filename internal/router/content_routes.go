package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/vidtube/internal/handler" // HTTP handlers
)

// registerVideos mounts /videos. The listing is the only cached route: it
// never depends on who is asking.
func registerVideos(r *echo.Group, h *handler.VideoHandler, g Guards) {
	r.GET("", h.List, g.ListCache)
	r.POST("", h.Publish, g.Auth)
	r.GET("/:videoId", h.Get, g.Optional)
	r.PATCH("/:videoId", h.Update, g.Auth)
	r.DELETE("/:videoId", h.Delete, g.Auth)
	r.PATCH("/toggle/publish/:videoId", h.TogglePublish, g.Auth)
}

func registerComments(r *echo.Group, h *handler.CommentHandler, g Guards) {
	r.GET("/:videoId", h.List)
	r.POST("/:videoId", h.Add, g.Auth)
	r.PATCH("/c/:commentId", h.Update, g.Auth)
	r.DELETE("/c/:commentId", h.Delete, g.Auth)
}

// registerLikes expects r to be authenticated already.
func registerLikes(r *echo.Group, h *handler.LikeHandler) {
	r.POST("/toggle/v/:videoId", h.ToggleVideo)
	r.POST("/toggle/c/:commentId", h.ToggleComment)
	r.POST("/toggle/t/:tweetId", h.ToggleTweet)
	r.GET("/videos", h.LikedVideos)
}

func registerTweets(r *echo.Group, h *handler.TweetHandler, g Guards) {
	r.POST("", h.Create, g.Auth)
	r.GET("/user/:userId", h.ListByUser)
	r.PATCH("/:tweetId", h.Update, g.Auth)
	r.DELETE("/:tweetId", h.Delete, g.Auth)
}
