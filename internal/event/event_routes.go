package event

import (
	"go-kintai/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	events := r.Group("/events")
	events.Use(auth)
	{
		events.GET("", middleware.RBACAuthorize(rbacService, "event", "read"), h.GetAll)
		events.GET("/:id", middleware.RBACAuthorize(rbacService, "event", "read"), h.GetByID)
		events.POST("", middleware.RBACAuthorize(rbacService, "event", "write"), h.Create)
		events.PUT("/:id", middleware.RBACAuthorize(rbacService, "event", "write"), h.Update)
		events.DELETE("/:id", middleware.RBACAuthorize(rbacService, "event", "write"), h.Delete)
		events.DELETE("", middleware.RBACAuthorize(rbacService, "event", "purge"), h.Purge)
	}
}
