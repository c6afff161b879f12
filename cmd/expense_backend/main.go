package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/core/services"
	"github.com/Darshanh20/ExpenseManagement/internal/handlers"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/Darshanh20/ExpenseManagement/internal/platform/config"
	"github.com/Darshanh20/ExpenseManagement/internal/platform/metrics"
	"github.com/Darshanh20/ExpenseManagement/internal/repositories/database/pgsql"
	"github.com/Darshanh20/ExpenseManagement/internal/utils"
	"github.com/Darshanh20/ExpenseManagement/migrations"
	"github.com/Darshanh20/ExpenseManagement/pkg/database"
	"github.com/Darshanh20/ExpenseManagement/pkg/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// @title Expense Management API
// @version 1.0
// @description Multi-tenant expense submission and approval.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Bootstrap logger until the configured level is known
	logger := logging.New(false, "info")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = logging.New(cfg.IsProduction, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool, logger)

	if cfg.MigrationsEnabled {
		if err := migrations.Up(cfg.DatabaseURL, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	appMetrics := metrics.New()

	authLimiter, err := middleware.NewIPRateLimiter(cfg.LoginRateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool),
		services.WithMetrics(appMetrics),
		services.WithEventTracker(posthogClient),
	)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Panic recovered", slog.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, handlers.ErrorResponse{Error: "Internal server error", Code: "INTERNAL_ERROR"})
		}),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.PrometheusMiddleware(appMetrics),
		middleware.PosthogMiddleware(posthogClient),
	)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(appMetrics.Registry, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(r, cfg, serviceContainer, authLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}
