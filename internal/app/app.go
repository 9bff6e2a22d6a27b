package app

import (
	"context"
	"fmt"

	"amora_backend/database"
	"amora_backend/internal/config"
	"amora_backend/internal/events"
	"amora_backend/internal/handlers"
	"amora_backend/internal/logger"
	"amora_backend/internal/middleware"
	"amora_backend/internal/ratelimit"
	"amora_backend/internal/repositories"
	"amora_backend/internal/routes"
	"amora_backend/internal/services"
	"amora_backend/internal/validator"
	"amora_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter, ledgerWorker := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ledgerWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.LedgerWorker) {
	// Redis опционален: без него rate limiter работает в памяти инстанса
	var limiter ratelimit.SwipeLimiter
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.NewRedisSwipeLimiter(redisClient, cfg.Swipes.PerMinute, cfg.Swipes.Per10Sec)
		logger.Info("Rate limiter: redis", "addr", cfg.Redis.Addr)
	} else {
		limiter = ratelimit.NewMemorySwipeLimiter(cfg.Swipes.PerMinute, cfg.Swipes.Per10Sec)
		logger.Warn("Rate limiter: in-memory (single instance only)")
	}

	eventRepo := repositories.NewEventRepository(gormDB)
	notifier := events.NewMultiNotifier(
		events.NewLogNotifier(),
		events.NewOutboxNotifier(eventRepo),
	)

	serviceContainer := services.NewServiceContainer(gormDB, limiter, notifier, cfg)
	appHandlers := initializeHandlers(serviceContainer)

	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	ledgerWorker := workers.NewLedgerWorker(serviceContainer.Consumables, subscriptionRepo, cfg)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, ledgerWorker
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	v := validator.New()
	base := handlers.NewBaseHandler(v)

	return &handlers.AppHandlers{
		SwipeHandler:        handlers.NewSwipeHandler(base, sc.Swipes),
		MatchHandler:        handlers.NewMatchHandler(base, sc.Matches),
		ConsumableHandler:   handlers.NewConsumableHandler(base, sc.Consumables),
		SubscriptionHandler: handlers.NewSubscriptionHandler(base, sc.Subscriptions),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	return ginRouter
}
