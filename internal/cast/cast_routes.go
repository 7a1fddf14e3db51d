package cast

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	casts := r.Group("/casts")
	{
		casts.GET("", handler.GetAll)
		casts.POST("", handler.Create)
		casts.DELETE("/:name", handler.Delete)
	}
}
