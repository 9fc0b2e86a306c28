// Package web assembles the HTTP server: middleware, the /api/v1 routes,
// /metrics and the background jobs.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/quillpress/quillpress/config"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/util/metrics"
	"github.com/quillpress/quillpress/web/cache"
	"github.com/quillpress/quillpress/web/controller"
	"github.com/quillpress/quillpress/web/entity"
	"github.com/quillpress/quillpress/web/job"
	"github.com/quillpress/quillpress/web/middleware"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API together with its scheduled jobs.
type Server struct {
	cfg   *config.Config
	db    *gorm.DB
	store *cache.Client

	httpServer *http.Server
	listener   net.Listener
	cron       *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server over an opened database and rate limit store.
func NewServer(cfg *config.Config, db *gorm.DB, store *cache.Client) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{cfg: cfg, db: db, store: store, ctx: ctx, cancel: cancel}
}

// initRouter builds the gin engine with middleware and every route.
func (s *Server) initRouter() (*gin.Engine, error) {
	if s.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// forwarding headers are honoured only from the configured proxies
	if err := engine.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	engine.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

	corsCfg := s.corsConfig()
	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS_ORIGINS: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(s.cfg.IsProduction()),
		cors.New(corsCfg),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)

	authService := service.NewAuthService(s.db, s.cfg.JWTSecret)
	base := controller.NewBaseController(authService, s.cfg.IsProduction())
	limiter := middleware.RateLimit(s.store, middleware.DefaultRateLimitConfig(s.cfg.RateLimitPerMinute))

	api := engine.Group("/api/v1")
	controller.NewHealthController(api, s.db)
	controller.NewAuthController(api.Group("/auth"), base, authService, service.NewAPIKeyService(s.db), limiter)
	controller.NewPostController(api.Group("/posts"), base, service.NewPostService(s.db))
	controller.NewAdminController(api.Group("/admin"), base, service.NewModerationService(s.db))
	controller.NewCategoryController(api.Group("/categories"), base, service.NewCategoryService(s.db))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, entity.Msg{Message: "route not found"})
	})
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, entity.Msg{Message: "method not allowed"})
	})

	return engine, nil
}

// corsConfig allows every origin unless CORS_ORIGINS names them.
func (s *Server) corsConfig() cors.Config {
	c := cors.DefaultConfig()
	if len(s.cfg.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = s.cfg.CORSOrigins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "token", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	c.MaxAge = 12 * time.Hour
	return c
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	dbCfg, err := s.cfg.Database()
	if err == nil && dbCfg.IsSQLite() {
		if _, err := s.cron.AddJob("@every 5m", job.NewCheckpointJob(s.db)); err != nil {
			logger.Warning("add checkpoint job failed:", err)
		}
	}

	postStats := job.NewPostStatsJob(s.db)
	if _, err := s.cron.AddJob("@every 1m", postStats); err != nil {
		logger.Warning("add post stats job failed:", err)
	}
	go func() {
		defer common.Recover("post stats job")
		postStats.Run()
	}()
}

// Start binds the listener and serves in the background.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(s.cfg.Listen, strconv.Itoa(s.cfg.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped:", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop drains in-flight requests, then stops the jobs.
func (s *Server) Stop() error {
	defer s.cancel()

	var errs []error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(s.ctx, shutdownTimeout)
		defer cancel()
		errs = append(errs, s.httpServer.Shutdown(ctx))
	} else if s.listener != nil {
		errs = append(errs, s.listener.Close())
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	return common.Combine(errs...)
}

// Addr is the address the server listens on, once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) GetCtx() context.Context { return s.ctx }
