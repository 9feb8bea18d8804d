package main

import (
	"context"
	"fmt"
	"log"

	"fileshare/config"
	"fileshare/database"
	"fileshare/handlers"
	"fileshare/logger"
	"fileshare/middleware"
	"fileshare/repositories"
	"fileshare/services"
	"fileshare/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting fileshare service")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Log.Level)

	if err := database.InitMySQL(&cfg.Database); err != nil {
		log.Fatalf("init mysql failed: %v", err)
	}

	if err := database.RunMigrations(context.Background()); err != nil {
		log.Fatalf("run migrations failed: %v", err)
	}
	log.Println("database migrations applied")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	store, err := storage.NewMinioStorage(context.Background(), &cfg.Storage)
	if err != nil {
		log.Fatalf("init object storage failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer, store)
	handlers.SetServices(serviceContainer)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", handlers.GetProfile)

		protected.GET("/files", handlers.ListFiles)
		protected.POST("/files/upload", handlers.UploadFile)
		protected.GET("/files/:id", handlers.GetFile)
		protected.GET("/files/:id/download", handlers.DownloadFile)
		protected.GET("/files/:id/key", handlers.GetFileKey)
		protected.PUT("/files/:id/share", handlers.ToggleShared)
		protected.DELETE("/files/:id", handlers.DeleteFile)

		protected.GET("/access-requests", handlers.ListAccessRequests)
		protected.POST("/access-requests", handlers.CreateAccessRequest)
		protected.PUT("/access-requests/:id/respond", handlers.RespondAccessRequest)
		protected.PUT("/access-requests/:id/cancel", handlers.CancelAccessRequest)

		protected.GET("/notifications", handlers.ListNotifications)
		protected.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
		protected.DELETE("/notifications/:id", handlers.DeleteNotification)

		protected.GET("/search", handlers.Search)

		protected.GET("/settings", handlers.GetSettings)
		protected.PUT("/settings", handlers.UpdateSettings)
	}
}
