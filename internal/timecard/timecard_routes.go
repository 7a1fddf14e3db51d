package timecard

import (
	"blair-ops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	timecards := r.Group("/timecards")
	{
		if redisClient != nil {
			timecards.POST("/clock", middleware.Idempotency(redisClient), handler.Clock)
		} else {
			timecards.POST("/clock", handler.Clock)
		}
		timecards.GET("/statuses", handler.GetStatuses)
		timecards.GET("/history", handler.GetHistory)
		timecards.GET("/history/export", handler.ExportHistory)
	}
}
