package main

import (
	"time"

	"inventory-service/internal/cache"
	"inventory-service/internal/config"
	"inventory-service/internal/database"
	"inventory-service/internal/handlers"
	"inventory-service/internal/middleware"
	"inventory-service/internal/repository"
	"inventory-service/internal/routes"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	// Conexiones
	postgresDB, err := database.NewPostgresDB(
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		logger,
	)
	if err != nil {
		logger.Fatal("Error conectando a PostgreSQL", zap.Error(err))
	}
	defer postgresDB.Close()

	if err := postgresDB.EnsureSchema(logger); err != nil {
		logger.Fatal("Error creando el esquema", zap.Error(err))
	}

	redisDB, err := database.NewRedisDB(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("Error conectando a Redis", zap.Error(err))
	}
	defer redisDB.Close()

	// Repositories
	userRepo, err := repository.NewUserRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("Error preparando user repository", zap.Error(err))
	}
	branchRepo, err := repository.NewBranchRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("Error preparando branch repository", zap.Error(err))
	}
	itemRepo, err := repository.NewItemRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("Error preparando item repository", zap.Error(err))
	}
	movementRepo, err := repository.NewMovementRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("Error preparando movement repository", zap.Error(err))
	}
	requestRepo, err := repository.NewRequestRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("Error preparando request repository", zap.Error(err))
	}
	budgetRepo := repository.BudgetRepository{DB: postgresDB.DB}
	vehicleRepo := repository.VehicleRepository{DB: postgresDB.DB}
	transferRunner := repository.NewTransferRunner(postgresDB.DB)

	// Caché de registros de stock
	itemCache := cache.NewItemCache(redisDB.Client, 1000, 5*time.Minute, logger)

	// Services
	userService := services.NewUserService(
		userRepo, branchRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
		cfg.Inventory.BcryptCost,
		logger,
	)
	catalogService := services.NewCatalogService(
		userRepo, branchRepo, itemRepo, itemCache,
		cfg.Inventory.MainStorageBranchID, logger,
	)
	stockService := services.NewStockService(
		userRepo, itemRepo, movementRepo, transferRunner, itemCache, logger,
	)
	requestService := services.NewRequestService(
		userRepo, itemRepo, requestRepo, transferRunner, itemCache,
		cfg.Inventory.MainStorageBranchID, logger,
	)
	exportService := services.NewExportService(
		branchRepo, userRepo, itemRepo, movementRepo, requestRepo,
		budgetRepo, vehicleRepo, logger,
	)

	// Handlers
	h := routes.Handlers{
		Users:    handlers.NewUserHandler(userService, logger),
		Catalog:  handlers.NewCatalogHandler(catalogService, logger),
		Stock:    handlers.NewStockHandler(stockService, logger),
		Requests: handlers.NewRequestHandler(requestService, logger),
		Budgets:  handlers.NewBudgetHandler(budgetRepo, userRepo, logger),
		Vehicles: handlers.NewVehicleHandler(vehicleRepo, userRepo, logger),
		Export:   handlers.NewExportHandler(exportService, cfg.Inventory.ExportSecret, logger),
		Feed:     handlers.NewFeedHandler(requestService, logger),
		Health:   middleware.NewHealthChecker(postgresDB, redisDB, logger),
	}

	// Router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	routes.SetupRoutes(router, h)

	middleware.ServerInfo(cfg.Server.Port, logger)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Error iniciando el servidor", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return logger
}
