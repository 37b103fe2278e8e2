package server

import (
	"net/http"
	"time"

	"careers-portal/config"
	"careers-portal/internal/handlers"
	"careers-portal/internal/middleware"
	"careers-portal/internal/site"
	"careers-portal/internal/token"
	"careers-portal/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	Router *gin.Engine
	config *config.Config
	logger *zap.Logger

	// Handlers
	jobsHandler   *handlers.JobsHandler
	applyHandler  *handlers.ApplyHandler
	uploadHandler *handlers.UploadHandler
}

// Options overrides default collaborators; tests inject their own tenant
// table and template directory here.
type Options struct {
	SiteTable    map[string]site.SiteConfig
	SiteFallback *site.SiteConfig
	TemplateGlob string
	StaticDir    string
}

// New creates a new server instance
func New(cfg *config.Config, logger *zap.Logger, opts *Options) *Server {
	// Set Gin mode
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.TestMode)
	}

	if opts == nil {
		opts = &Options{}
	}
	table := opts.SiteTable
	if table == nil {
		table = site.DefaultTable()
	}
	fallback := site.DefaultFallback()
	if opts.SiteFallback != nil {
		fallback = *opts.SiteFallback
	}
	templateGlob := opts.TemplateGlob
	if templateGlob == "" {
		templateGlob = "web/templates/*.html"
	}
	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "web/static"
	}

	// Create Gin router
	router := gin.New()
	router.LoadHTMLGlob(templateGlob)
	router.Static("/static", staticDir)

	// Initialize collaborators
	resolver := site.NewResolver(table, fallback)
	client := upstream.New(cfg, logger)
	tokens := token.NewStore(cfg.Cookie.Prefix, cfg.CookieMaxAge(), cfg.IsProduction())

	server := &Server{
		Router:        router,
		config:        cfg,
		logger:        logger,
		jobsHandler:   handlers.NewJobsHandler(client, resolver, logger),
		applyHandler:  handlers.NewApplyHandler(client, resolver, tokens, logger),
		uploadHandler: handlers.NewUploadHandler(client, cfg, logger),
	}

	server.setupMiddleware()
	server.setupRoutes(resolver)

	return server
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.Router.Use(middleware.RequestIDMiddleware())
	s.Router.Use(middleware.RecoveryMiddleware(s.logger))
	s.Router.Use(middleware.SecurityHeadersMiddleware())

	rateLimiter := middleware.NewRateLimit(
		s.config.RateLimit.Requests,
		time.Duration(s.config.RateLimit.Window)*time.Second,
	)
	s.Router.Use(middleware.RateLimitMiddleware(rateLimiter, s.logger))

	s.Router.Use(middleware.LoggingMiddleware(s.logger))
}

// setupRoutes configures the page and form routes
func (s *Server) setupRoutes(resolver *site.Resolver) {
	// Health check endpoints
	s.Router.GET("/health", s.healthCheck)
	s.Router.HEAD("/health", s.healthCheck)
	s.Router.GET("/ready", s.healthCheck)
	s.Router.HEAD("/ready", s.healthCheck)

	s.Router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/jobs")
	})

	jobs := s.Router.Group("/jobs")
	{
		jobs.GET("", s.jobsHandler.ListJobs)
		jobs.POST("/upload", s.uploadHandler.Upload)
		jobs.GET("/:id", s.jobsHandler.GetJob)
		jobs.GET("/:id/apply", s.applyHandler.ShowForm)
		jobs.POST("/:id/apply", s.applyHandler.Submit)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		handlers.RenderNotFound(c, resolver.Resolve(c.Request.Host))
	})
}

// healthCheck returns the service status. The upstream API is probed lazily
// per request, so readiness here only covers this process.
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"env":    s.config.Server.Env,
	})
}
