package handlers

import (
	"github.com/SscSPs/currency_resolver/cmd/docs"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/middleware"
	"github.com/SscSPs/currency_resolver/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {

	// Add health check route
	r.GET("/health", getHealth)

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group. Storefront routes are public and rate
// limited; a valid token only identifies the acting user. Admin writes require auth.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) error {
	limiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	v1 := r.Group("/api/v1",
		middleware.RateLimit(limiter),
		middleware.OptionalAuthMiddleware(cfg.JWTSecret),
		middleware.CurrencyContext(service.Resolver, cfg.CartCookieName, cfg.JWTSecret),
	)
	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret)

	registerCurrencyRoutes(v1, requireAuth, service, cfg.IsProduction)
	registerExchangeRateRoutes(v1, requireAuth, service.ExchangeRate, service.ExchangeImport)
	registerPriceRoutes(v1, service.Resolver, service.Converter)
	registerOrderRoutes(v1, service.Orders)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
