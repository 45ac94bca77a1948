package route

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nliven/airsync/internal/app"
)

// SetupRoutes registers every HTTP endpoint on the engine. gatherer
// may be nil when no metrics registry is exposed (tests).
func SetupRoutes(r *gin.Engine, appCtx *app.App, gatherer prometheus.Gatherer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	publicRouter := r.Group("")
	timeout := appCtx.Config.Server.RequestTimeout

	NewAirportRouter(timeout, publicRouter, appCtx)
	NewSyncRouter(timeout, publicRouter, appCtx)
}
