package server

import (
	"fmt"
	"net/http"
	"time"

	"catalog-admin/internal/config"
	custommiddleware "catalog-admin/internal/middleware"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/service"
	"catalog-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	redis  *redis.Client
}

// NewServer wires the mock catalog backend around productRepo. redisClient
// may be nil, in which case rate limiting is done in process.
func NewServer(cfg *config.Config, logger *zap.Logger, productRepo repository.ProductRepository, redisClient *redis.Client) *Server {
	router := NewRouter(cfg, logger, productRepo, redisClient)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		redis:  redisClient,
	}
}

// NewRouter builds the HTTP handler of the backend
func NewRouter(cfg *config.Config, logger *zap.Logger, productRepo repository.ProductRepository, redisClient *redis.Client) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env != "production"))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	limitConfig := custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "catalog_rate_limit",
	}

	var limiter custommiddleware.RateLimiter
	if redisClient != nil {
		limiter = custommiddleware.NewRedisRateLimiter(redisClient, limitConfig)
	} else {
		limiter = custommiddleware.NewLocalRateLimiter(limitConfig)
	}

	productService := service.NewProductService(productRepo)
	productHandler := transport.NewProductHandler(productService, logger)

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.RateLimitMiddleware(limiter, logger))
		productHandler.RegisterRoutes(r, "/api")
	})

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
