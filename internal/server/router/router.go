package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. audit may be
// nil when no audit store is configured.
func New(handler *handlers.InventoryHandler, audit *handlers.AuditHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	inv := r.Group("/inventory")
	inv.GET("", handler.Get)
	inv.POST("/refresh", handler.Refresh)
	inv.POST("/filter", handler.Filter)
	inv.POST("/edit", handler.OpenEdit)
	inv.PUT("/edit/stock", handler.InputStock)
	inv.POST("/edit/commit", handler.Commit)
	inv.DELETE("/edit", handler.Cancel)

	r.GET("/notifications", handler.Notifications)

	if audit != nil {
		r.GET("/audit/stock-updates", audit.StockUpdates)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
