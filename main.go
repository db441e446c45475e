package main

import (
	"log"

	"examportal/config"
	"examportal/handlers"
	"examportal/middleware"
	"examportal/models"
	"examportal/routes"
	"examportal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Exam{},
		&models.Question{},
		&models.Response{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	examService := services.NewExamService(db)
	responseService := services.NewResponseService(db, redisClient)

	// Make sure there is always at least one admin account
	if err := authService.EnsureAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to bootstrap admin user:", err)
	}

	// Initialize WebSocket hub for the live submission monitor
	hub := services.NewHub(responseService)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService, examService, responseService, hub)
	userHandler := handlers.NewUserHandler(examService, responseService, hub)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, adminHandler, userHandler, hub, examService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
