// Package wire constructs the application dependency graph.
package wire

import (
	"context"

	"edu-tutor-api/internal/application/tutor"
	"edu-tutor-api/internal/config"
	"edu-tutor-api/internal/infrastructure/llm"
	"edu-tutor-api/internal/infrastructure/persistence/mongodb"
	"edu-tutor-api/internal/infrastructure/persistence/redis"
	"edu-tutor-api/internal/interfaces/http/handler"
	"edu-tutor-api/internal/interfaces/http/middleware"
	"edu-tutor-api/internal/interfaces/http/router"
	"edu-tutor-api/internal/realtime"
	"edu-tutor-api/pkg/logger"
)

// App holds the initialized application.
type App struct {
	Router *router.Router
	Mongo  *mongodb.Client
	Redis  *redis.Client
	Hub    *realtime.Hub
}

// InitializeApp builds every component and returns the app plus a
// cleanup function. The store connection is acquired here, once; a
// failure aborts startup.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	mongoClient, err := mongodb.NewClient(&cfg.Database.Mongo)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "connected to mongodb", "database", cfg.Database.Mongo.Database)

	usageRepo := mongodb.NewUsageRecordRepository(mongoClient)

	factory := llm.NewEinoFactory(cfg)
	generator := tutor.NewGenerator(factory)

	hub := realtime.NewHub(cfg.Security.CORS.AllowedOrigins)

	// Redis only backs the optional chat rate limiter.
	var redisClient *redis.Client
	var chatRateLimit = middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{}, nil)
	if cfg.Security.RateLimit.Enabled {
		redisClient, err = redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			_ = mongoClient.Close(context.Background())
			return nil, nil, err
		}
		chatRateLimit = middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
		}, redisClient.Redis())
	}

	r := router.New(cfg, router.Handlers{
		Health:        handler.NewHealthHandler(cfg, mongoClient, redisClient),
		Chat:          handler.NewChatHandler(generator, usageRepo, hub),
		Hub:           hub,
		ChatRateLimit: chatRateLimit,
	})

	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = mongoClient.Close(context.Background())
	}

	return &App{
		Router: r,
		Mongo:  mongoClient,
		Redis:  redisClient,
		Hub:    hub,
	}, cleanup, nil
}
