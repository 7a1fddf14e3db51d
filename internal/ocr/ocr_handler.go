package ocr

import (
	"io"
	"net/http"
	"strings"

	ocrerrors "blair-ops/internal/ocr/errors"
	"blair-ops/internal/shared/apperror"
	"blair-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  Service
	maxBytes int64
}

func NewHandler(service Service, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Handler{service: service, maxBytes: maxBytes}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ReadSlip(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		writeServiceError(c, ocrerrors.ErrImageRequired)
		return
	}
	if fh.Size > h.maxBytes {
		writeServiceError(c, ocrerrors.ErrImageTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeServiceError(c, apperror.ErrInvalidInput.WithCause(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		writeServiceError(c, apperror.ErrInvalidInput.WithCause(err))
		return
	}
	if int64(len(data)) > h.maxBytes {
		writeServiceError(c, ocrerrors.ErrImageTooLarge)
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}

	draft, err := h.service.ReadSlip(c.Request.Context(), data, mimeType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft, nil)
}
