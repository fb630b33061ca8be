package attendance

import (
	"go-kintai/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	attendance := r.Group("/attendance")
	attendance.Use(auth)
	{
		attendance.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.List)
		attendance.GET("/summary", middleware.RBACAuthorize(rbacService, "attendance", "report"), h.Summary)
		attendance.GET("/:id", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetByID)
		attendance.POST("", middleware.RBACAuthorize(rbacService, "attendance", "write"), h.Apply)
		attendance.PUT("/:id",
			middleware.RBACAuthorize(rbacService, "attendance", "write"),
			middleware.IdempotencyKey(),
			h.Update,
		)
		attendance.DELETE("/:id", middleware.RBACAuthorize(rbacService, "attendance", "write"), h.Delete)
		attendance.DELETE("", middleware.RBACAuthorize(rbacService, "attendance", "purge"), h.Purge)
	}
}
