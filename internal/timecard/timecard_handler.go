package timecard

import (
	"fmt"
	"net/http"

	"blair-ops/internal/middleware"
	"blair-ops/internal/shared/apperror"
	"blair-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeBindError(c *gin.Context, err error) {
	writeServiceError(c, apperror.MapValidationError(err))
}

func (h *Handler) Clock(c *gin.Context) {
	var req ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.FinishIdempotent(c, h.rdb, nil)
		writeBindError(c, err)
		return
	}

	resp, err := h.service.Clock(c.Request.Context(), req)
	if err != nil {
		middleware.FinishIdempotent(c, h.rdb, nil)
		writeServiceError(c, err)
		return
	}

	middleware.FinishIdempotent(c, h.rdb, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetStatuses(c *gin.Context) {
	resp, err := h.service.GetStatuses(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetHistory(c *gin.Context) {
	var filter HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.service.GetHistory(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	start, end, meta := response.PageBounds(c, len(resp), 31)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) ExportHistory(c *gin.Context) {
	var filter HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeBindError(c, err)
		return
	}

	export, err := h.service.ExportHistory(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="timecard_%s_%s.xlsx"`, export.StartDate, export.EndDate))
	c.Data(http.StatusOK, xlsxContentType, export.Workbook.Bytes())
}
