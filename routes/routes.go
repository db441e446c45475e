package routes

import (
	"log"
	"net/http"
	"strconv"

	"examportal/handlers"
	"examportal/middleware"
	"examportal/models"
	"examportal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	userHandler *handlers.UserHandler,
	hub *services.Hub,
	examService *services.ExamService,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/exams", adminHandler.GetExams)
				admin.GET("/exam/:id", adminHandler.GetExamDetail)
				admin.GET("/users", adminHandler.GetUsers)
				admin.POST("/exam", adminHandler.CreateExam)
				admin.DELETE("/exam/:id", adminHandler.DeleteExam)
				admin.POST("/question", adminHandler.AddQuestion)
				admin.POST("/upload-questions", adminHandler.UploadQuestions)
				admin.POST("/assign", adminHandler.AssignExam)
				admin.GET("/responses", adminHandler.GetResponses)
				admin.POST("/get-score", adminHandler.Evaluate)
			}

			// Candidate routes
			user := protected.Group("/user")
			user.Use(middleware.RequireRole(models.RoleUser))
			{
				user.GET("/exams", userHandler.GetMyExams)
				user.GET("/exam/:id", userHandler.GetExam)
				user.POST("/submit", userHandler.Submit)
				user.GET("/result/:id", userHandler.GetResult)
			}
		}
	}

	// WebSocket endpoint for the live submission monitor. Browsers can't
	// set headers on a websocket handshake, so the token travels as a
	// query parameter.
	router.GET("/ws/monitor/:examID", func(c *gin.Context) {
		examID, err := strconv.ParseUint(c.Param("examID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam ID"})
			return
		}

		userID, role, err := middleware.ParseToken(c.Query("token"), jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		// Only the owning admin may watch an exam's monitor
		if _, _, err := examService.GetExamDetail(uint(examID), userID); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for exam %d, admin %d: %v", examID, userID, err)
			return
		}

		hub.RegisterClient(conn, uint(examID), userID)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
