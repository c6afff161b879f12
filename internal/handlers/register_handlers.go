package handlers

import (
	"github.com/Darshanh20/ExpenseManagement/cmd/docs"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/Darshanh20/ExpenseManagement/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authLimiter *limiter.Limiter,
) {
	RegisterValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := r.Group("/api")
	authenticated := middleware.AuthMiddleware(services.Token)

	registerAuthRoutes(api, services, authenticated, authLimiter)
	registerAdminRoutes(api.Group("/admin", authenticated, middleware.RequireCapability(domain.CapManageUsers)), services.User)
	registerExpenseRoutes(api.Group("/expenses", authenticated), services.Expense, cfg.ReceiptMaxBytes)
	registerManagerRoutes(api.Group("/manager", authenticated, middleware.RequireCapability(domain.CapReviewExpenses)), services.Approval, services.User)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
