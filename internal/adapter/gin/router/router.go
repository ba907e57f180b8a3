package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/indianathe3rdKing/quicklog-api/internal/adapter/gin/handler"
	"github.com/indianathe3rdKing/quicklog-api/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "quicklog-api",
		})
	})

	// Login stub kept for the browser extension
	router.POST("/login", userHandler.Login)

	users := router.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
		users.GET("/:id/words", userHandler.ListWords)
		users.POST("/:id/words", userHandler.AppendWord)
		users.DELETE("/:id/words", userHandler.RemoveWord)
	}

	// Gin's tree never matches an empty :id segment, so /users//words lands
	// here instead of the handler's own guard. Report it as the client error
	// it is rather than a generic unknown route.
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/users//") {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "User ID is required",
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"message": "data not found",
		})
	})

	return router
}
