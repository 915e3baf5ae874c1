package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/feedback-api/backend/config"
	"github.com/pageza/feedback-api/backend/internal/api"
	"github.com/pageza/feedback-api/backend/internal/database"
	"github.com/pageza/feedback-api/backend/internal/middleware"
	"github.com/pageza/feedback-api/backend/internal/repository"
	"github.com/pageza/feedback-api/backend/internal/router"
	"github.com/pageza/feedback-api/backend/internal/service"
)

// Version is reported by the health and index endpoints
const Version = "v1.0.0"

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires the feedback API on top of an already opened pool. redisClient may
// be nil, in which case write endpoints are not rate limited.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	feedbackService := service.NewFeedbackService(repository.NewFeedbackRepository(db))

	deps := router.Dependencies{
		Feedback: api.NewFeedbackHandler(feedbackService),
		Health: api.NewHealthHandler(func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		}, Version),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if redisClient != nil {
		deps.WriteLimiter = middleware.NewFeedbackWriteRateLimiter(redisClient, cfg.RateLimitPerMinute)
	}

	engine := router.SetupRouter(deps)

	return &Server{
		router: engine,
		db:     db,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Handler exposes the routed engine
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
