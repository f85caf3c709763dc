package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/critcoin/critcoin-api/api/swagger"
	"github.com/critcoin/critcoin-api/internal/handler"
	"github.com/critcoin/critcoin-api/internal/middleware"
	"github.com/critcoin/critcoin-api/internal/repository"
	"github.com/critcoin/critcoin-api/internal/service"
	"github.com/critcoin/critcoin-api/pkg/cache"
	"github.com/critcoin/critcoin-api/pkg/config"
	"github.com/critcoin/critcoin-api/pkg/database"
	"github.com/critcoin/critcoin-api/pkg/export"
	"github.com/critcoin/critcoin-api/pkg/logger"
	corsmiddleware "github.com/critcoin/critcoin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/critcoin/critcoin-api/pkg/middleware/requestid"
)

// @title CritCoin API
// @version 1.0.0
// @description Admin-authenticated semester archives for the CritCoin platform
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Admin.WalletAddress == "" {
		logr.Warn("ADMIN_WALLET_ADDRESS is not set; every admin request will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Archives.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, archive cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	liveRepo := repository.NewLiveStateRepository(db)
	archiveRepo := repository.NewSemesterArchiveRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Archives.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAdminAuthService(service.AdminAuthConfig{
		AdminAddress:    cfg.Admin.WalletAddress,
		SignatureWindow: cfg.Admin.SignatureWindow,
		Production:      cfg.IsProduction(),
	}, metricsSvc, logr)
	archiveSvc := service.NewSemesterArchiveService(service.SemesterArchiveServiceParams{
		Live:      liveRepo,
		Archives:  archiveRepo,
		Auth:      authSvc,
		Cache:     cacheSvc,
		Audit:     auditRepo,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
	}, service.SemesterArchiveServiceConfig{
		AdminAddress:    cfg.Admin.WalletAddress,
		ProjectSlots:    cfg.Archives.ProjectSlots,
		CacheTTL:        cfg.Archives.CacheTTL,
		DefaultPageSize: cfg.Archives.ListPageSize,
	})
	exportSvc := service.NewSemesterArchiveExportService(archiveSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr, cfg.Archives.ExportEnabled)

	archiveHandler := handler.NewSemesterArchiveHandler(archiveSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	archiveHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
