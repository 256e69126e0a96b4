// Package routes wires handlers, services and repositories into the
// gin router.
package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-tasklist/backend/internal/config"
	"go-tasklist/backend/internal/handlers"
	"go-tasklist/backend/internal/mailer"
	"go-tasklist/backend/internal/repositories"
	"go-tasklist/backend/internal/services"
)

// SetupRouter builds the gin router with every endpoint registered.
func SetupRouter(db *sql.DB, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Repositories
	todoRepo := repositories.NewTodoRepository(db, logger)
	userRepo := repositories.NewUserRepository(db, logger)
	resetRepo := repositories.NewMySQLResetTokenRepo(db)

	// Services
	sender := mailer.NewSender(cfg, logger)
	todoService := services.NewTodoService(todoRepo)
	userService := services.NewUserService(userRepo, resetRepo, sender, cfg.FrontendURL, logger)
	jwtService := services.NewJWTService(cfg.JWTSecret)

	// Handlers
	userHandler := handlers.NewUserHandler(userService, jwtService, logger)
	todoHandler := handlers.NewTodoHandler(todoService, logger)

	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", userHandler.RegisterHandler)
		auth.POST("/login", userHandler.LoginHandler)
		auth.POST("/forgot-password", userHandler.ForgotPasswordHandler)
		auth.POST("/reset-password/:token", userHandler.ResetPasswordHandler)
	}

	authorized := r.Group("/")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/auth/me", userHandler.MeHandler)
		authorized.GET("/todos", todoHandler.ListTodosHandler)
		authorized.GET("/todos/:id", todoHandler.GetTodoByIDHandler)
		authorized.POST("/todos", todoHandler.CreateTodoHandler)
		authorized.PUT("/todos/:id", todoHandler.UpdateTodoHandler)
		authorized.DELETE("/todos/:id", todoHandler.DeleteTodoHandler)
	}

	return r
}
