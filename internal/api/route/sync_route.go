package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nliven/airsync/internal/api/controller"
	"github.com/nliven/airsync/internal/api/middleware"
	"github.com/nliven/airsync/internal/app"
)

func NewSyncRouter(timeout time.Duration, group *gin.RouterGroup, appCtx *app.App) {
	group.Use(middleware.RequestTimeout(timeout))

	sc := controller.NewSyncController(appCtx.Syncer, appCtx.Bus)

	group.POST("sync", sc.TriggerSync)
	group.GET("sync/last", sc.LastSync)
}
