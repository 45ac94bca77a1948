package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nliven/airsync/internal/api/controller"
	"github.com/nliven/airsync/internal/api/middleware"
	"github.com/nliven/airsync/internal/app"
)

func NewAirportRouter(timeout time.Duration, group *gin.RouterGroup, appCtx *app.App) {
	group.Use(middleware.RequestTimeout(timeout))

	ac := controller.NewAirportController(appCtx.Store)

	group.GET("airports", ac.ListAirports)
	group.GET("airport/:code", ac.GetAirport)
}
