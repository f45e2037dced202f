package handlers

import (
	"time"

	"github.com/aripa/fish_stats_app/cmd/docs"
	portssvc "github.com/aripa/fish_stats_app/internal/core/ports/services"
	"github.com/aripa/fish_stats_app/internal/middleware"
	"github.com/aripa/fish_stats_app/internal/platform/config"
	"github.com/aripa/fish_stats_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {
	// On the engine so OPTIONS preflights are answered before routing.
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/", getHome)
	r.GET("/health", getHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupStatsRoutes(r, services, rateLimiter, posthogClient)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// corsConfig allows the dashboard origins configured in cfg.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "OPTIONS"}
	c.AllowHeaders = append(c.AllowHeaders, middleware.ClientIDHeader, "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	c.MaxAge = 12 * time.Hour
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

// setupStatsRoutes configures the /api/stats group.
func setupStatsRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {
	group := r.Group("/api/stats")
	if rateLimiter != nil {
		group.Use(middleware.RateLimit(rateLimiter))
	}
	group.Use(middleware.PosthogMiddleware(posthogClient))

	registerStatsRoutes(group, services.Stats)
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
