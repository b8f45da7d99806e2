package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleamarket/internal/config"
	"fleamarket/internal/consumer"
	"fleamarket/internal/database"
	"fleamarket/internal/handler"
	"fleamarket/internal/middleware"
	"fleamarket/internal/monitor"
	"fleamarket/internal/redis"
	"fleamarket/internal/repository"
	"fleamarket/internal/service/admin"
	"fleamarket/internal/service/category"
	"fleamarket/internal/service/chat"
	"fleamarket/internal/service/goods"
	"fleamarket/internal/service/notice"
	"fleamarket/internal/service/order"
	"fleamarket/internal/service/user"
	iutils "fleamarket/internal/utils"
	"fleamarket/pkg/log"
	"fleamarket/pkg/queue"
	"fleamarket/pkg/snowflake"
	"fleamarket/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to load config")
	}

	logConfig := log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	}
	if err := log.Init(logConfig); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	// database
	if err := database.Init(cfg); err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	if err := database.CreateIndexes(db); err != nil {
		log.WithError(err).Warn("Failed to create indexes")
	}

	// redis is optional, unread counters fall back to the database
	if err := redis.Init(cfg); err != nil {
		log.WithError(err).Warn("Redis unavailable, counter caching disabled")
	} else {
		defer redis.Close()
	}

	// tracing
	tracer, err := monitor.NewTracer(&monitor.TracerConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		JaegerEndpoint: cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Tracer shutdown failed")
		}
	}()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	utils.RegisterCustomValidators()

	// message queue for sale notices
	messageQueue, err := queue.NewMemoryQueue(&queue.MemoryQueueConfig{
		BufferSize: cfg.Market.QueueBufferSize,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create message queue")
	}
	defer messageQueue.Close()

	idGenerator, err := snowflake.NewIDGenerator(1)
	if err != nil {
		log.WithError(err).Fatal("Failed to create ID generator")
	}

	recommendCache, err := bigcache.New(context.Background(),
		bigcache.DefaultConfig(cfg.Market.RecommendTTL))
	if err != nil {
		log.WithError(err).Warn("Recommend cache disabled")
		recommendCache = nil
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	goodsRepo := repository.NewGoodsRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	chatRepo := repository.NewChatRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// services
	userService := user.NewUserService(userRepo)
	goodsService := goods.NewGoodsService(goodsRepo, recommendCache)
	orderService := order.NewOrderService(orderRepo, goodsRepo, userRepo,
		messageQueue, cfg.Market.NoticeTopic, idGenerator)
	categoryService := category.NewCategoryService(categoryRepo, goodsRepo)
	noticeService := notice.NewNoticeService(noticeRepo, redis.GetClient(), cfg.Market.UnreadCountTTL)
	chatService := chat.NewChatService(chatRepo, userRepo)
	adminService := admin.NewAdminService(adminRepo, userRepo, goodsRepo)

	// sale notice consumer
	noticeConsumer := consumer.NewNoticeConsumer(messageQueue, cfg.Market.NoticeTopic, noticeService)
	if err := noticeConsumer.Start(context.Background()); err != nil {
		log.WithError(err).Fatal("Failed to start notice consumer")
	}

	if cfg.Metrics.Enabled {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				active, idle := database.Stats()
				monitor.UpdateDBConnections(active, idle)
			}
		}()
	}

	jwtManager := iutils.NewJWTManager(
		cfg.Security.JWT.Secret,
		cfg.Security.JWT.Issuer,
		cfg.Security.JWT.Expire,
		cfg.Security.JWT.RefreshTTL,
	)

	router := setupRouter(cfg, jwtManager,
		handler.NewUserHandler(userService),
		handler.NewGoodsHandler(goodsService),
		handler.NewOrderHandler(orderService),
		handler.NewCategoryHandler(categoryService),
		handler.NewNoticeHandler(noticeService),
		handler.NewChatHandler(chatService),
		handler.NewAdminHandler(adminService, orderService),
		messageQueue,
	)

	server := &http.Server{
		Addr:           cfg.Server.GetAddr(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr": server.Addr,
			"mode": cfg.Server.Mode,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func setupRouter(
	cfg *config.Config,
	jwtManager *iutils.JWTManager,
	userHandler *handler.UserHandler,
	goodsHandler *handler.GoodsHandler,
	orderHandler *handler.OrderHandler,
	categoryHandler *handler.CategoryHandler,
	noticeHandler *handler.NoticeHandler,
	chatHandler *handler.ChatHandler,
	adminHandler *handler.AdminHandler,
	messageQueue queue.Queue,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Timeout(cfg.Server.WriteTimeout))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
	}
	if cfg.Security.CORS.Enabled {
		router.Use(middleware.CORS(cfg.Security.CORS.AllowOrigins))
	}
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	router.GET("/health", healthCheck(messageQueue))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "timestamp": time.Now().Unix()})
	})
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	tokenValidator := func(token string) (*middleware.UserInfo, error) {
		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.UserInfo{
			ID:   claims.UserID,
			Role: claims.Role,
		}, nil
	}

	v1 := router.Group("/api/v1")
	{
		// public routes
		v1.GET("/goods", goodsHandler.List)
		v1.GET("/goods/search", goodsHandler.Search)
		v1.GET("/goods/recommend", goodsHandler.Recommend)
		v1.GET("/goods/:id", goodsHandler.Get)
		v1.GET("/categories", categoryHandler.List)

		protected := v1.Group("")
		protected.Use(middleware.Auth(tokenValidator))
		{
			// goods
			protected.POST("/goods", goodsHandler.Publish)
			protected.PUT("/goods/:id", goodsHandler.Update)
			protected.DELETE("/goods/:id", goodsHandler.Remove)
			protected.GET("/my/goods", goodsHandler.ListMine)

			// orders
			protected.POST("/orders", orderHandler.PlaceOrder)
			protected.GET("/orders", orderHandler.ListOrders)
			protected.GET("/orders/:id", orderHandler.GetOrder)
			protected.POST("/orders/:id/cancel", orderHandler.CancelOrder)
			protected.GET("/sales", orderHandler.ListSales)
			protected.PUT("/sales/:id/status", orderHandler.UpdateSubOrderStatus)

			// profile and purchases
			protected.GET("/profile", userHandler.GetProfile)
			protected.PUT("/profile", userHandler.UpdateProfile)
			protected.GET("/purchases", userHandler.ListPurchases)

			// notices
			protected.GET("/notices", noticeHandler.List)
			protected.GET("/notices/unread", noticeHandler.UnreadCount)
			protected.PUT("/notices/read", noticeHandler.MarkAllRead)
			protected.PUT("/notices/:id/read", noticeHandler.MarkRead)
			protected.DELETE("/notices/:id", noticeHandler.Delete)
			protected.DELETE("/notices", noticeHandler.DeleteMany)

			// chat
			protected.POST("/contacts", chatHandler.AddContact)
			protected.GET("/contacts", chatHandler.ListContacts)
			protected.DELETE("/contacts/:peer_id", chatHandler.RemoveContact)
			protected.POST("/messages", chatHandler.SendMessage)
			protected.GET("/messages/:peer_id", chatHandler.ListMessages)
			protected.GET("/messages/unread", chatHandler.UnreadCount)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.Auth(tokenValidator), middleware.RequireRole(iutils.RoleAdmin))
		{
			adminGroup.GET("/profile", adminHandler.GetProfile)
			adminGroup.GET("/admins", adminHandler.ListAdmins)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/users/:id", adminHandler.GetUser)
			adminGroup.PUT("/users/:id/status", adminHandler.SetUserStatus)
			adminGroup.PUT("/users/:id/values", adminHandler.AdjustUserValues)
			adminGroup.DELETE("/goods/:id", adminHandler.RemoveGoods)
			adminGroup.GET("/orders", adminHandler.ListOrders)
			adminGroup.DELETE("/orders/:id", adminHandler.DeleteOrder)
			adminGroup.GET("/stats/daily", adminHandler.DailyStats)

			adminGroup.POST("/categories", categoryHandler.Create)
			adminGroup.PUT("/categories/:id", categoryHandler.Rename)
			adminGroup.PUT("/categories/:id/activation", categoryHandler.SetActivation)
			adminGroup.DELETE("/categories/:id", categoryHandler.Delete)
		}
	}

	return router
}

func healthCheck(messageQueue queue.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := map[string]interface{}{
			"database": checkComponent(database.Health()),
			"redis":    checkComponent(redis.Health()),
			"queue":    checkComponent(messageQueue.Health()),
		}

		status := "ok"
		httpCode := http.StatusOK
		if services["database"].(map[string]interface{})["healthy"] == false {
			status = "error"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":    status,
			"timestamp": time.Now().Unix(),
			"services":  services,
		})
	}
}

func checkComponent(err error) map[string]interface{} {
	if err != nil {
		return map[string]interface{}{
			"healthy": false,
			"error":   err.Error(),
		}
	}
	return map[string]interface{}{
		"healthy": true,
	}
}
