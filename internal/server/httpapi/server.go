// Package httpapi exposes the file operations over HTTP: upload, list,
// lookup-by-name, and delete, all guarded by JWT bearer authentication.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/avetrov/filedrop/internal/logging"
	"github.com/avetrov/filedrop/internal/server/config"
	"github.com/avetrov/filedrop/internal/server/storage"
)

// Server handles the REST surface. All fields are set at construction and
// never mutated; requests share the store handle concurrently.
type Server struct {
	address         string
	container       string
	store           storage.BlobStore
	logger          logging.Logger
	jwtSecret       []byte
	jwtIssuer       string
	jwtAudience     string
	limiter         *rate.Limiter
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, store storage.BlobStore) *Server {
	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		burst := int(cfg.RequestsPerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
	}

	return &Server{
		address:         cfg.EndpointAddrHTTP,
		container:       cfg.Container,
		store:           store,
		logger:          l.With("module", "httpapi"),
		jwtSecret:       []byte(cfg.SecretKey),
		jwtIssuer:       cfg.JWTIssuer,
		jwtAudience:     cfg.JWTAudience,
		limiter:         limiter,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.routes()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLog())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	if s.limiter != nil {
		router.Use(s.rateLimit())
	}

	router.GET("/healthz", s.Health)

	api := router.Group("/api/files")
	api.Use(s.bearerAuth())
	{
		api.POST("/upload", s.Upload)
		api.GET("", s.List)
		api.GET("/:name", s.Lookup)
		api.DELETE("/:name", s.Delete)
	}

	return router
}
