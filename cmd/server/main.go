package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/shopcore/backend/internal/application/catalog"
	stockapp "github.com/shopcore/backend/internal/application/stock"
	"github.com/shopcore/backend/internal/domain/stock"
	"github.com/shopcore/backend/internal/infrastructure/cache"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/event"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/shopcore/backend/internal/interfaces/http/handler"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
	"github.com/shopcore/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShopCore stock engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	depotRepo := persistence.NewGormDepotRepository(db.DB)
	locationRepo := persistence.NewGormStockLocationRepository(db.DB)
	movementRepo := persistence.NewGormMovementDocumentRepository(db.DB)
	reconciliationRepo := persistence.NewGormReconciliationRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Transaction scope for multi-row stock mutations
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Domain ledger
	ledger := stock.NewLedger()

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo)
	depotService := catalogapp.NewDepotService(depotRepo)
	movementService := stockapp.NewMovementDocumentService(txScope, movementRepo, locationRepo, ledger)
	reconciliationService := stockapp.NewReconciliationService(txScope, reconciliationRepo, ledger)
	queryService := stockapp.NewStockQueryService(locationRepo)
	orderService := stockapp.NewOrderService(orderRepo)
	coordinator := stockapp.NewOrderStockCoordinator(txScope, orderRepo, ledger)

	// Sellable stock cache: Redis when reachable, in-process otherwise
	var sellableCache catalogapp.SellableStockCache
	redisCache, err := cache.NewRedisSellableStockCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Stock.SellableCacheTTL)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory sellable stock cache", zap.Error(err))
		memCache := cache.NewInMemorySellableStockCache(cfg.Stock.SellableCacheTTL)
		defer memCache.Close()
		sellableCache = memCache
	} else {
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis cache", zap.Error(err))
			}
		}()
		sellableCache = redisCache
		log.Info("Redis sellable stock cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Every event goes to the structured audit log
	auditHandler := event.NewAuditLogHandler(log, eventSerializer)
	eventBus.Subscribe(auditHandler)

	// Stock changes -> product stock mirror, cache invalidation, low-stock alerts
	stockMirrorHandler := catalogapp.NewStockMirrorHandler(log, productRepo, queryService).
		WithCache(sellableCache)
	if cfg.Stock.LowStockAlertsEnabled {
		stockMirrorHandler = stockMirrorHandler.WithEventPublisher(eventBus)
	}
	eventBus.Subscribe(stockMirrorHandler)

	log.Info("Event handlers registered",
		zap.Strings("stock_mirror_events", stockMirrorHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	productService.SetEventPublisher(eventBus)
	movementService.SetEventPublisher(eventBus)
	reconciliationService.SetEventPublisher(eventBus)
	coordinator.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	depotHandler := handler.NewDepotHandler(depotService)
	movementHandler := handler.NewMovementHandler(movementService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	stockHandler := handler.NewStockHandler(queryService)
	orderHandler := handler.NewOrderHandler(orderService, coordinator)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Store identification for all API routes
	storeConfig := middleware.DefaultStoreConfig()
	storeConfig.Logger = log
	engine.Use(middleware.StoreMiddlewareWithConfig(storeConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler)
	r.Register(productHandler)
	r.Register(depotHandler)
	r.Register(stockHandler)
	r.Register(movementHandler)
	r.Register(reconciliationHandler)
	r.Register(orderHandler)
	r.Setup()

	// Configure HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
