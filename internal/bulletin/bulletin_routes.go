package bulletin

import (
	"go-kintai/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	posts := r.Group("/bulletin")
	posts.Use(auth)
	{
		posts.GET("", middleware.RBACAuthorize(rbacService, "bulletin", "read"), h.GetAll)
		posts.POST("", middleware.RBACAuthorize(rbacService, "bulletin", "write"), h.Create)
		posts.PUT("/:id", middleware.RBACAuthorize(rbacService, "bulletin", "write"), h.Update)
		posts.DELETE("/:id", middleware.RBACAuthorize(rbacService, "bulletin", "write"), h.Delete)
		posts.DELETE("", middleware.RBACAuthorize(rbacService, "bulletin", "purge"), h.Purge)
	}
}
