package http

import (
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/omiri/backend/config"
)

// SetupRouter creates and configures the Gin router. hub may be nil.
func SetupRouter(cfg *config.Config, handler *Handler, hub *sentry.Hub) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(hub))
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		shopping := v1.Group("/shopping-list")
		{
			shopping.GET("", handler.GetShoppingList)
			shopping.PUT("/items", handler.SaveItems)
		}

		prefs := v1.Group("/preferences")
		{
			prefs.PUT("/country", handler.SetCountry)
			prefs.PUT("/stores", handler.SetStores)
			prefs.PUT("/foreground", handler.SetForeground)
		}

		v1.GET("/stores", handler.ListStores)

		reconcile := v1.Group("/reconcile")
		{
			reconcile.POST("", handler.Reconcile)
			reconcile.GET("/status", handler.ReconcileStatus)
		}
	}

	return router
}
