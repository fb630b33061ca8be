package calendar

import (
	"bytes"
	"net/http"

	"go-kintai/internal/shared/apperror"
	"go-kintai/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("calendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("calendar request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

func (h *Handler) Get(c *gin.Context) {
	switch c.DefaultQuery("format", "json") {
	case "json":
		resp, err := h.service.Render(c.Request.Context())
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	case "ics":
		var buf bytes.Buffer
		if err := h.service.ExportICS(c.Request.Context(), &buf); err != nil {
			h.writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="kintai.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
	default:
		h.writeServiceError(c, apperror.InvalidField("format"))
	}
}
