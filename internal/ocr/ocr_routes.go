package ocr

import (
	"blair-ops/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterRoutes mounts the slip reader behind a per-IP limiter.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, limit rate.Limit, burst int) {
	ocrGroup := r.Group("/ocr")
	{
		ocrGroup.POST("/slips", middleware.RateLimitByIP(limit, burst), handler.ReadSlip)
	}
}
