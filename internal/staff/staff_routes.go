package staff

import (
	"go-kintai/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	staff := r.Group("/staff")
	staff.Use(auth)
	{
		staff.GET("", middleware.RBACAuthorize(rbacService, "staff", "read"), h.GetAll)
		staff.GET("/:id", middleware.RBACAuthorize(rbacService, "staff", "read"), h.GetByID)
		staff.POST("", middleware.RBACAuthorize(rbacService, "staff", "manage"), h.Create)
		staff.PUT("/:id", middleware.RBACAuthorize(rbacService, "staff", "manage"), h.Update)
		staff.DELETE("/:id", middleware.RBACAuthorize(rbacService, "staff", "manage"), h.Delete)
	}
}
