package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpcontroller "daemon/internal/controller/http"
	"daemon/internal/mcp"
	"daemon/internal/privacy"
	"daemon/internal/repo/persistent"
	"daemon/internal/usecase"
	"daemon/pkg/cache"
	"daemon/pkg/config"
	"daemon/pkg/database"
	"daemon/pkg/jwt"
	"daemon/pkg/logger"
	"daemon/pkg/middleware"
	"daemon/pkg/queue"
	"daemon/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "daemon/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without rate limiting)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (continuing without backups)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwtService,
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	userRepo := persistent.NewUserRepository(a.db)
	endpointRepo := persistent.NewEndpointRepository(a.db)
	entryRepo := persistent.NewEntryRepository(a.db)

	// The sensitivity registry is shared by every surface.
	registry := privacy.NewRegistry()

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(userRepo, a.jwtService, a.log)
	dataUseCase := usecase.NewDataUseCase(userRepo, endpointRepo, entryRepo, registry, a.queueClient, a.log)
	adminUseCase := usecase.NewAdminUseCase(userRepo, endpointRepo, entryRepo, a.s3Client, a.log)

	// Initialize HTTP handlers
	authHandler := httpcontroller.NewAuthHandler(authUseCase)
	dataHandler := httpcontroller.NewDataHandler(dataUseCase, a.log)
	adminHandler := httpcontroller.NewAdminHandler(adminUseCase, a.log)

	// Setup router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var rateLimit gin.HandlerFunc
	if a.redisClient != nil {
		rateLimit = middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRPM, time.Minute)
	}

	api := r.Group("/api/v1")
	if rateLimit != nil {
		api.Use(rateLimit)
	}
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/me", middleware.AuthMiddleware(a.jwtService), authHandler.Me)

		api.GET("/endpoints", dataHandler.ListEndpoints)

		// Public reads resolve identity when credentials are present so the
		// same route serves owners, admins and visitors.
		read := api.Group("", middleware.OptionalAuthMiddleware(a.jwtService))
		{
			read.GET("/:endpoint", dataHandler.ListDirect)
			read.GET("/:endpoint/:id", dataHandler.GetItem)
			read.GET("/:endpoint/users/:username", dataHandler.ListForUser)
			// Legacy URL shape; redirects to the canonical pattern.
			read.GET("/users/:username/:endpoint", dataHandler.LegacyListForUser)
		}

		write := api.Group("", middleware.AuthMiddleware(a.jwtService))
		{
			write.POST("/:endpoint", dataHandler.CreateEntry)
			write.PUT("/:endpoint/:id", dataHandler.UpdateEntry)
			write.DELETE("/:endpoint/:id", dataHandler.DeleteEntry)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(a.jwtService), middleware.AdminOnlyMiddleware())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.POST("/backup", adminHandler.Backup)
		}
	}

	if a.cfg.MCPEnabled {
		adapter := mcp.NewAdapter(dataUseCase, mcp.Config{
			ToolPrefix: a.cfg.MCPToolPrefix,
			MaxLimit:   a.cfg.MCPMaxLimit,
		}, a.log)

		mcpGroup := r.Group("/mcp")
		if rateLimit != nil {
			mcpGroup.Use(rateLimit)
		}
		{
			mcpGroup.POST("/tools/list", adapter.ToolsList)
			mcpGroup.POST("/tools/call", adapter.ToolsCall)
			mcpGroup.POST("/tools/:tool_name", adapter.CallTool)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Daemon API starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down daemon API...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Daemon API exited")
	return nil
}
