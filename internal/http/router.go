package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc probes a dependency; nil error means healthy. The admin server
// uses it to ping the session store.
type HealthFunc func(ctx context.Context) error

// healthTimeout bounds the dependency probe on /healthz.
const healthTimeout = 2 * time.Second

// New builds the admin engine with the standard middleware chain and mounts
// /healthz and /metrics.
func New(health HealthFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery(), Metrics())

	r.GET("/healthz", healthHandler(health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// healthHandler answers 200 when the probe passes and 503 with the probe
// error otherwise.
func healthHandler(health HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
