package handler

import (
	"log"
	"strings"
	"time"

	"github.com/ComePicard/Cooloc/internal/auth"
	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/service"
	"github.com/ComePicard/Cooloc/pkg/response"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// LoggerMiddleware logs every request with latency and status.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if query != "" {
			path = path + "?" + query
		}

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s",
			status,
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// RecoveryMiddleware keeps a panicking handler from taking the process down.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				c.AbortWithStatusJSON(500, gin.H{
					"code":    500,
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// AuthMiddleware verifies the Bearer token, resolves its email claim to a
// user row and stores the user in the request context. Requests without a
// valid token never reach the core.
func AuthMiddleware(cfg *config.Config, userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		email, err := auth.ParseEmail(&cfg.Auth, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		user, err := userService.GetByEmail(c.Request.Context(), email)
		if err != nil {
			response.Unauthorized(c, "unknown account")
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
