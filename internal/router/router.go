package router

import (
	"context"

	"github.com/anonto42/microblog/backend/internal/handlers"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/anonto42/microblog/backend/internal/services"
	"github.com/anonto42/microblog/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			entry := logrus.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
}

// SetupRoutes migrates the schema, builds repositories and services, and
// registers every route. auth authenticates the request actor.
func SetupRoutes(ctx context.Context, e *echo.Echo, cfg *config.Config, db *config.DB, auth echo.MiddlewareFunc) error {
	if err := db.Postgres.AutoMigrate(&models.User{}, &models.Follow{}); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	logrus.Info("PostgreSQL auto-migrations completed")

	// --- Initialize Repositories ---
	mongoDB := db.MongoDatabase(cfg)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)

	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := commentRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	var authorCache repositories.AuthorCache
	if db.Redis != nil {
		authorCache = repositories.NewRedisAuthorCache(db.Redis, cfg.AuthorCacheTTL)
	}

	// --- Initialize Services ---
	checker := services.NewExistenceChecker(postRepo, commentRepo, userRepo)
	authors := services.NewAuthorResolver(userRepo, authorCache)
	feedService := services.NewFeedService(postRepo, commentRepo, userRepo, followRepo, authors, cfg.EnrichConcurrency)
	postService := services.NewPostService(postRepo)
	commentService := services.NewCommentService(commentRepo, checker, authors)
	likeService := services.NewLikeService(postRepo, commentRepo, checker)
	followService := services.NewFollowService(followRepo, checker)

	// Health check and metrics are always accessible
	health := handlers.NewHealthHandler(healthChecks(db))
	e.GET("/health", health.HealthCheck)
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	api := e.Group("/api/v1")
	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(api, auth)
	handlers.NewPostHandler(postService, feedService).RegisterPostRoutes(api, auth)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api, auth)
	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(api, auth)
	handlers.NewFollowHandler(followService).RegisterFollowRoutes(api, auth)

	logrus.Info("all routes configured")
	return nil
}

func healthChecks(db *config.DB) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"mongo": func(ctx context.Context) error { return db.Mongo.Ping(ctx, nil) },
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if db.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return db.Redis.Ping(ctx).Err() }
	}
	return checks
}
