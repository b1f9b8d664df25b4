package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the router is built from
type Dependencies struct {
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	// Health reports storage status; a "status" other than "up" yields 503
	Health func(ctx context.Context) map[string]string
	// Redis enables the rate limiter when non-nil
	Redis *redis.Client
}

type Server struct {
	*http.Server
	logger *zap.Logger
	db     *sqlx.DB
	redis  *redis.Client
}

// NewServer wires the Postgres-backed repositories into an HTTP server
func NewServer(cfg *config.Config, logger *zap.Logger, db *sqlx.DB) *Server {
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	router := NewRouter(cfg, logger, Dependencies{
		Categories: repository.NewCategoryRepository(db),
		Products:   repository.NewProductRepository(db),
		Health: func(ctx context.Context) map[string]string {
			return database.Health(ctx, db, logger)
		},
		Redis: redisClient,
	})

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

// NewRouter builds the complete route table
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) http.Handler {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger, cfg.IsDevelopment()))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	if deps.Redis != nil {
		router.Use(custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "catalog_rate_limit",
		}, logger))
		logger.Info("Rate limiting enabled",
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window),
		)
	}

	router.Get("/health", healthHandler(deps.Health))

	tokens := service.NewTokenService(service.TokenConfig{
		Key:    cfg.JWT.Key,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiry,
	})

	authService := service.NewAuthService(service.DefaultCredentials, tokens, logger)
	categoryService := service.NewCategoryService(deps.Categories, logger)
	productService := service.NewProductService(deps.Products, deps.Categories, logger)

	authMiddleware := custommiddleware.AuthMiddleware(tokens, logger)

	transport.NewAuthHandler(authService, logger).RegisterRoutes(router)
	transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)

	return router
}

func healthHandler(check func(ctx context.Context) map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		databaseStatus := map[string]string{"status": "unknown"}
		if check != nil {
			databaseStatus = check(r.Context())
		}

		status, code := "ok", http.StatusOK
		if databaseStatus["status"] != "up" {
			status, code = "unavailable", http.StatusServiceUnavailable
		}

		custommiddleware.RespondWithJSON(w, code, map[string]interface{}{
			"status":   status,
			"database": databaseStatus,
		})
	}
}

// Close releases the database pool and the Redis client
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			return err
		}
	}

	return nil
}
