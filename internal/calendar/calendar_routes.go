package calendar

import (
	"go-kintai/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	r.GET("/calendar", auth, middleware.RBACAuthorize(rbacService, "calendar", "read"), h.Get)
}
