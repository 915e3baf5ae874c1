package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/feedback-api/backend/internal/api"
	"github.com/pageza/feedback-api/backend/internal/middleware"
)

// Dependencies are the handlers and optional middleware the router mounts
type Dependencies struct {
	Feedback       *api.FeedbackHandler
	Health         *api.HealthHandler
	AllowedOrigins []string
	// WriteLimiter is nil when rate limiting is disabled
	WriteLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(deps.AllowedOrigins),
	)
	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)

	deps.Health.RegisterRoutes(router)

	var writeMiddleware []gin.HandlerFunc
	if deps.WriteLimiter != nil {
		writeMiddleware = append(writeMiddleware, deps.WriteLimiter.Middleware())
		router.GET("/rate-limit", rateLimitStatus(deps.WriteLimiter))
	}
	deps.Feedback.RegisterRoutes(router, writeMiddleware...)

	return router
}

// rateLimitStatus reports the caller's remaining write budget without using it
func rateLimitStatus(limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, reset, err := limiter.Remaining(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to check rate limit"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"remaining":  remaining,
			"reset_time": reset.Unix(),
			"reset_in":   strconv.Itoa(int(time.Until(reset).Seconds())) + "s",
		})
	}
}
