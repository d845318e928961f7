package main // Entry point package

import (
	"context"   // root context
	"errors"    // errors.Is for http.ErrServerClosed
	"fmt"       // fmt wraps startup errors
	"net/http"  // http.ErrServerClosed
	"os"        // os for exit codes and signals
	"os/signal" // signal.NotifyContext for graceful shutdown
	"syscall"   // SIGTERM
	"time"      // shutdown deadline

	"github.com/labstack/echo/v4"                   // echo is the web framework used for handlers
	echomw "github.com/labstack/echo/v4/middleware" // stock echo middlewares
	"go.uber.org/zap"                               // structured logging

	"github.com/iliyamo/vidtube/internal/config"     // environment configuration
	"github.com/iliyamo/vidtube/internal/database"   // MySQL connection and migrations
	"github.com/iliyamo/vidtube/internal/handler"    // HTTP handlers and error handler
	"github.com/iliyamo/vidtube/internal/middleware" // auth, logging, rate limit and cache middlewares
	"github.com/iliyamo/vidtube/internal/queue"      // event publisher and activity consumer
	"github.com/iliyamo/vidtube/internal/repository" // MySQL stores
	"github.com/iliyamo/vidtube/internal/router"     // route registration
	"github.com/iliyamo/vidtube/internal/service"    // service holds the controllers
	"github.com/iliyamo/vidtube/internal/storage"    // S3 blob store
	"github.com/iliyamo/vidtube/internal/utils"      // token issuer and verifier
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vidtube:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run() error {
	if err := config.DotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable, caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	blobs, err := storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.RabbitURL != "" {
		pub := queue.NewAMQPPublisher(cfg.RabbitURL, log)
		go pub.Run(ctx)
		events = pub
	}
	if cfg.EventsEnabled {
		go queue.StartActivityConsumer(ctx, cfg.RabbitURL, queue.NewActivityLog(cfg.ActivityLogDir), log)
	}

	// Stores
	users := repository.NewUserRepo(db)
	videos := repository.NewVideoRepo(db)
	comments := repository.NewCommentRepo(db)
	tweets := repository.NewTweetRepo(db)

	// Services
	tokens := utils.NewTokens(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	sessions := service.NewSessionService(users, tokens, blobs, events, cfg.BcryptCost, log)
	handlers := router.Handlers{
		Users:     handler.NewUserHandler(sessions, service.NewUserService(users, blobs, log), cfg.CookieSecure),
		Videos:    handler.NewVideoHandler(service.NewVideoService(videos, blobs, events, log)),
		Comments:  handler.NewCommentHandler(service.NewCommentService(comments, videos)),
		Likes:     handler.NewLikeHandler(service.NewLikeService(repository.NewLikeRepo(db), videos, comments, tweets)),
		Tweets:    handler.NewTweetHandler(service.NewTweetService(tweets, users)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(repository.NewDashboardRepo(db), videos)),
		Subscriptions: handler.NewSubscriptionHandler(
			service.NewSubscriptionService(repository.NewSubscriptionRepo(db), users)),
		Playlists: handler.NewPlaylistHandler(
			service.NewPlaylistService(repository.NewPlaylistRepo(db), videos, users)),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: cfg.CORSOrigin != "*",
	}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log))

	router.Register(e, handlers, router.Guards{
		Auth:      middleware.JWTAuth(tokens),
		Optional:  middleware.OptionalAuth(tokens),
		ListCache: middleware.ResponseCache(config.LoadCacheConfig(), rdb, log),
	})

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
