package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appsvc "github.com/preinvoice/backend/internal/application/preinvoice"
	"github.com/preinvoice/backend/internal/infrastructure/config"
	"github.com/preinvoice/backend/internal/infrastructure/erp"
	"github.com/preinvoice/backend/internal/infrastructure/logger"
	"github.com/preinvoice/backend/internal/infrastructure/persistence"
	"github.com/preinvoice/backend/internal/interfaces/http/handler"
	"github.com/preinvoice/backend/internal/interfaces/http/middleware"
	"github.com/preinvoice/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Pre-Invoice Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize the catalog database with a zap-backed GORM logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Reference-data repositories
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	costCenterRepo := persistence.NewGormCostCenterRepository(db.DB)
	conditionRepo := persistence.NewGormPaymentConditionRepository(db.DB)

	// Upstream ERP adapters. Lookups and submission share one service; the
	// fiscal-invoice feed may live behind a different base URL.
	erpClient := erp.NewClientFromConfig(&cfg.Erp)
	invoiceClient := erp.NewClient(cfg.Erp.InvoiceBaseURL, cfg.Erp.APIKey, cfg.Erp.Timeout)
	lookupAdapter := erp.NewLookupAdapter(erpClient)
	invoiceAdapter := erp.NewInvoiceAdapter(invoiceClient)
	submissionAdapter := erp.NewSubmissionAdapter(erpClient)

	// Editing sessions and the draft application service
	sessions := appsvc.NewSessionManager()
	scheduler := appsvc.NewPaymentScheduler(conditionRepo)
	catalogGuard := appsvc.NewCatalogGuard(branchRepo, costCenterRepo)
	draftService := appsvc.NewDraftService(
		sessions,
		invoiceAdapter,
		lookupAdapter,
		lookupAdapter,
		lookupAdapter,
		scheduler,
		catalogGuard,
		submissionAdapter,
		log,
	)

	// HTTP handlers
	draftHandler := handler.NewDraftHandler(draftService)
	catalogHandler := handler.NewCatalogHandler(branchRepo, costCenterRepo, conditionRepo)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so every later log line carries it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(draftHandler).
		Register(catalogHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
