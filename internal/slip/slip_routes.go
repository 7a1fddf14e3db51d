package slip

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

	slips := r.Group("/slips")
	{
		slips.GET("", handler.GetAll)
		slips.GET("/sales", handler.GetDailySales)
		slips.GET("/today", handler.GetToday)
		slips.GET("/:id", handler.GetByID)
		if redisClient != nil {
			slips.POST("", middleware.Idempotency(redisClient), handler.Create)
		} else {
			slips.POST("", handler.Create)
		}
		slips.PUT("/:id", handler.Update)
		slips.DELETE("/:id", handler.Delete)
	}
}
