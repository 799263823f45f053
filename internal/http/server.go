// Package http provides the HTTP servers and the API router.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/riotkit-org/backup-repository/internal/auth/http"
	authUseCase "github.com/riotkit-org/backup-repository/internal/auth/usecase"
	collectionHTTP "github.com/riotkit-org/backup-repository/internal/collection/http"
	"github.com/riotkit-org/backup-repository/internal/config"
	"github.com/riotkit-org/backup-repository/internal/metrics"
	storageHTTP "github.com/riotkit-org/backup-repository/internal/storage/http"
)

// readinessTimeout bounds the database ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// Server represents the API HTTP server.
type Server struct {
	listener
	db     *sql.DB
	router *gin.Engine
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		listener: listener{
			name:   "http server",
			logger: logger,
			server: &http.Server{
				Addr:              fmt.Sprintf("%s:%d", host, port),
				ReadHeaderTimeout: 15 * time.Second,
				IdleTimeout:       60 * time.Second,
			},
		},
		db: db,
	}
}

// SetupRouter registers the middleware chain and every API route.
// Uploads and downloads stream large bodies, so the server sets no read or write timeout.
func (s *Server) SetupRouter(
	cfg *config.Config,
	userManager authUseCase.UserManager,
	tokenHandler *authHTTP.TokenHandler,
	collectionHandler *collectionHTTP.CollectionHandler,
	fileHandler *storageHTTP.FileHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := newCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			metricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
			"/health", "/ready",
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	required := []gin.HandlerFunc{authHTTP.AuthenticationMiddleware(userManager, s.logger)}
	optional := []gin.HandlerFunc{authHTTP.OptionalAuthenticationMiddleware(userManager, s.logger)}
	if cfg.RateLimitEnabled {
		limiter := authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
		required = append(required, limiter)
		optional = append(optional, limiter)
	}

	v1 := router.Group("/v1")

	auth := v1.Group("/auth", required...)
	{
		auth.POST("/token", tokenHandler.GenerateHandler)
		auth.GET("/token/:id", tokenHandler.LookupHandler)
		auth.DELETE("/token/:id", tokenHandler.RevokeHandler)
		auth.GET("/tokens", tokenHandler.SearchHandler)
		auth.GET("/roles", tokenHandler.RolesHandler)
	}

	collections := v1.Group("/collections", required...)
	{
		collections.POST("", collectionHandler.CreateHandler)
		collections.GET("", collectionHandler.ListHandler)
		collections.GET("/:id", collectionHandler.FetchHandler)
		collections.PUT("/:id", collectionHandler.EditHandler)
		collections.DELETE("/:id", collectionHandler.DeleteHandler)
	}

	repository := v1.Group("/repository", required...)
	{
		repository.GET("/files", fileHandler.ListHandler)
		repository.POST("/upload", fileHandler.UploadHandler)
		repository.POST("/upload-by-url", fileHandler.UploadByURLHandler)
	}

	// Public files can be downloaded without a token.
	download := v1.Group("/repository", optional...)
	download.GET("/file/:filename", fileHandler.ViewHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	return s.serve(s.router)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready once the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}
