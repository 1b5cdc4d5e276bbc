package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"esyncify/internal/api/handlers"
	"esyncify/internal/api/middleware"
	"esyncify/internal/config"
	"esyncify/internal/events"
	"esyncify/internal/services/ebay"
	"esyncify/internal/store"
	"esyncify/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Server struct {
	config *config.Config
	logger zerolog.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger zerolog.Logger, st *store.Store, engines worker.EngineFactory, publisher events.Emitter) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	ebayClient := ebay.NewClient(cfg.EbayClientID, cfg.EbayClientSecret, logger)

	// Initialize handlers
	importHandler := handlers.NewImportHandler(st, engines, publisher, logger)
	jobHandler := handlers.NewJobHandler(st, logger)
	ebayHandler := handlers.NewEbayHandler(st, ebayClient, cfg.EbayFetchQuota, cfg.EbayFetchPageSize, logger)
	settingsHandler := handlers.NewSettingsHandler(st, logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.ShopAuth(st))
	{
		imports := v1.Group("/imports")
		{
			imports.POST("", importHandler.Create)
			imports.POST("/single", importHandler.Single)
			imports.POST("/enqueue", ebayHandler.Enqueue)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.GET("/:id", jobHandler.Get)
			jobs.DELETE("/:id", jobHandler.Cancel)
		}

		v1.GET("/preview", ebayHandler.Preview)
		v1.POST("/sellers/validate", ebayHandler.ValidateSeller)

		settings := v1.Group("/settings")
		{
			settings.GET("", settingsHandler.Get)
			settings.PUT("", settingsHandler.Update)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
