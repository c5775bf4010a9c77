package server

import (
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"time"

	"verduleria/internal/config"
	custommiddleware "verduleria/internal/middleware"
	"verduleria/internal/repository"
	"verduleria/internal/service"
	"verduleria/internal/storage"
	"verduleria/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const notFoundPage = "<h1>Error 404</h1><h3>The requested URL does not exist on this server</h3>"

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.CORSMiddleware())
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.RecoveryMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)

	// Initialize image storage
	imageStore, err := storage.NewImageStore(cfg.Server.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, imageStore, logger)
	cartService := service.NewCartService(cartRepo)
	mailService := service.NewMailService(cfg.SMTP, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	mailHandler := transport.NewMailHandler(mailService, cfg.SMTP.Email, logger)

	// The SMTP relay is the one abusable outbound side effect, so the mail
	// routes sit behind a redis fixed-window limiter.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	mailLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "rate_limit:mail",
	}, logger)

	// Register routes
	productHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	mailHandler.RegisterRoutes(router, mailLimiter)

	// Static assets
	router.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.Server.PublicDir))))

	// Unmatched routes get the HTML 404 page
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundPage))
	})

	server := &Server{
		Server: &http.Server{
			Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
