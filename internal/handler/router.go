package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"url-shortener-web/internal/config"
	"url-shortener-web/internal/domain"
	"url-shortener-web/pkg/logger"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// SetupRouter configures the Gin router with middleware and routes
func SetupRouter(pages *PageHandler, cfg *config.Config, log *logger.Logger) (*gin.Engine, error) {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	assets, err := staticFileSystem()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Apply global middleware
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(SecurityHeadersMiddleware(cfg))
	router.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, domain.HealthResponse{
			Status:  "healthy",
			Service: "url-shortener-web",
			Version: Version,
		})
	})

	// Browsers ask for this on every page; it is never a short code
	router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.StaticFS("/assets", assets)

	// Submission view
	site := router.Group("/", SessionMiddleware(cfg))
	{
		site.GET("/", pages.Index)
		site.POST("/", pages.Submit)
		site.POST("/copy", pages.Copy)
		site.POST("/dismiss", pages.Dismiss)
	}

	// Every other path is a short code
	router.NoRoute(SessionMiddleware(cfg), pages.NotFound)

	return router, nil
}
