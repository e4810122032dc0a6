package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/appcurator/internal/api/http"
	"github.com/GriffinCanCode/appcurator/internal/api/middleware"
	"github.com/GriffinCanCode/appcurator/internal/api/ws"
	"github.com/GriffinCanCode/appcurator/internal/domain/catalog"
	"github.com/GriffinCanCode/appcurator/internal/domain/curator"
	"github.com/GriffinCanCode/appcurator/internal/domain/filter"
	"github.com/GriffinCanCode/appcurator/internal/domain/host"
	"github.com/GriffinCanCode/appcurator/internal/domain/preferences"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/config"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/logging"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/resilience"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	host    *host.Host
	seeder  *catalog.Seeder
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		l, err := logging.New(logging.Config{Level: cfg.Logging.Level, OutputPaths: []string{"stdout"}})
		if err != nil {
			return nil, err
		}
		logger = l
	}

	logger.Info("Initializing curator server",
		zap.String("port", cfg.Server.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("locale", cfg.Curation.Locale),
	)

	// Own registry so several servers can coexist in one process
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetricsWith(registry)

	store := catalog.NewStore()

	var seeder *catalog.Seeder
	var hostSeeder host.Seeder
	if cfg.Catalog.Path != "" {
		s, err := catalog.NewSeeder(store, cfg.Catalog.Path, cfg.Catalog.Pattern, logger.Component("seeder"))
		if err != nil {
			return nil, fmt.Errorf("catalog seeder: %w", err)
		}
		seeder = s
		hostSeeder = s
	}

	reloadLogger := logger.Component("reload")
	breaker := resilience.New("catalog-reload", resilience.Settings{
		Cooldown:    cfg.Catalog.ReloadCooldown,
		ReadyToTrip: resilience.ConsecutiveFailures(max(cfg.Catalog.ReloadFailures, 1)),
		OnStateChange: func(name string, from, to resilience.State) {
			reloadLogger.Warn("Reload breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	cur := curator.New(logger.Component("curator")).WithMetrics(metrics)
	h := host.New(host.Options{
		Store:       store,
		Seeder:      hostSeeder,
		Breaker:     breaker,
		Preferences: preferences.NewStore(preferences.FromConfig(cfg.Curation)),
		Curator:     cur,
		Device: filter.Device{
			SDKLevel: cfg.Curation.SDKLevel,
			ABIs:     cfg.Curation.NativeArch,
		},
		RefreshOnEmpty: cfg.Curation.RefreshOnEmpty,
		Metrics:        metrics,
		Logger:         logger.Component("host"),
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.Server.CORSOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(h, metrics, logger.Component("api"))
	handlers.Register(router)

	wsHandler := ws.NewHandler(cur, metrics, logger.Component("stream"))
	router.GET("/stream", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/metrics/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	})

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		host:    h,
		seeder:  seeder,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Host returns the curation host
func (s *Server) Host() *host.Host {
	return s.host
}

// Start seeds the catalog and runs the first pass
func (s *Server) Start(ctx context.Context) error {
	if s.seeder != nil {
		if _, err := s.host.Reload(ctx); err != nil {
			s.logger.Warn("Initial catalog seed failed", zap.Error(err))
		}
	}

	result, err := s.host.Start(ctx)
	if err != nil {
		return fmt.Errorf("initial curation pass: %w", err)
	}
	s.logger.Info("Initial curation pass complete",
		zap.String("pass_id", result.PassID.String()),
		zap.Bool("empty", result.Empty),
	)
	return nil
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var err error
	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.httpSrv.Shutdown(ctx)
	}
	s.host.Stop()

	_ = s.logger.Sync()
	return err
}
