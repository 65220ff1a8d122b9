package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/userdesk/backend/internal/config"
	"github.com/userdesk/backend/internal/db"
	"github.com/userdesk/backend/internal/handler"
	"github.com/userdesk/backend/internal/service"
)

// @title           UserDesk API
// @version         1.0
// @description     User management backend: registration, login and role-based user CRUD.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	if level, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
		log.SetLevel(level)
	}
	logger := log.StandardLogger()

	ctx := context.Background()

	database, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("failed to ensure schema")
	}

	tokens, err := service.NewTokenService(cfg.Auth)
	if err != nil {
		logger.WithError(err).Fatal("invalid auth config")
	}

	authService, err := service.NewAuthService(database, tokens, cfg.Auth)
	if err != nil {
		logger.WithError(err).Fatal("invalid auth config")
	}

	userService, err := service.NewUserService(database, cfg.Auth)
	if err != nil {
		logger.WithError(err).Fatal("invalid auth config")
	}

	if cfg.Auth.AdminLogin != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminLogin, cfg.Auth.AdminName, cfg.Auth.AdminPassword); err != nil {
			logger.WithError(err).Fatal("failed to seed admin user")
		}
		logger.WithField("login", cfg.Auth.AdminLogin).Info("admin user ensured")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(logger))
	if len(cfg.Server.AllowedOrigins) > 0 {
		router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins, true))
	}

	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	authHandler := handler.NewAuthHandler(authService)
	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	userHandler := handler.NewUserHandler(userService)
	users := router.Group("/users")
	users.Use(handler.AuthMiddleware(authService))
	users.GET("", userHandler.List)
	users.GET("/currentUser", userHandler.CurrentUser)
	users.GET("/id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	logger.WithField("addr", cfg.Server.Addr).Info("starting server")
	if err := router.Run(cfg.Server.Addr); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
