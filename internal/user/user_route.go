package user

import (
	"paytrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.ExtractUserID(), middleware.RateLimitByUser(3, 10))
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetById)
		users.POST("", middleware.RBACAuthorize(rbacService, "user", "create"), handler.Create)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "user", "update"), handler.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "user", "delete"), handler.Delete)
	}
}
