// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stationery/internal/domain/tracker"
	"stationery/internal/infrastructure/export"
	"stationery/internal/infrastructure/http/v1/handlers"
	"stationery/internal/infrastructure/http/v1/middleware"
	"stationery/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Service owns the application state
	Service *tracker.Service

	// Exporter renders and archives exports
	Exporter *export.Exporter

	// Logger for request logging
	Logger *logger.Logger

	// HealthChecks must all answer Ping for /health/ready to succeed
	HealthChecks map[string]handlers.Pinger

	// MaxUploadBytes caps import request bodies; zero disables the cap
	MaxUploadBytes int64

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Exporter == nil {
		cfg.Exporter = export.NewExporter(nil, nil, cfg.Logger)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()
	api := router.Group("/api/v1")

	registerStateRoutes(api, base, cfg)
	registerReportRoutes(api, base, cfg)
	registerFormRoutes(api, base, cfg)
	registerStockRoutes(api, base, cfg)
	registerViewRoutes(api, base, cfg)
	registerTransferRoutes(api, base, cfg)

	return router
}

func registerStateRoutes(r *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewStateHandler(base, cfg.Service)
	r.GET("/state", h.Get)
	r.GET("/catalog", h.Catalog)
}

func registerReportRoutes(r *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewReportsHandler(base, cfg.Service)
	g := r.Group("/reports")
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}

func registerFormRoutes(r *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewFormHandler(base, cfg.Service)
	r.GET("/draft", h.GetDraft)
	r.PUT("/draft", h.SaveDraft)
	r.DELETE("/draft", h.ClearDraft)
	r.PUT("/selection", h.Select)
	r.DELETE("/selection", h.Deselect)
}

func registerStockRoutes(r *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewStockHandler(base, cfg.Service)
	g := r.Group("/stock")
	{
		g.GET("", h.Get)
		g.PUT("", h.Edit)
		g.POST("/clear", h.Clear)
		g.GET("/consumption", h.Consumption)
	}
}

func registerViewRoutes(r *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewViewsHandler(base, cfg.Service)
	g := r.Group("/views")
	{
		g.GET("/months", h.Months)
		g.GET("/weeks", h.Weeks)
		g.GET("/reports", h.Reports)
		g.GET("/summary", h.Summary)
	}
}

func registerTransferRoutes(r *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewTransferHandler(base, cfg.Service, cfg.Exporter)
	r.GET("/export/:format", h.Export)

	imports := r.Group("/import")
	imports.Use(middleware.BodyLimit(cfg.MaxUploadBytes))
	{
		imports.POST("/pdf", h.ImportPDF)
		imports.POST("/json", h.ImportJSON)
	}
}
