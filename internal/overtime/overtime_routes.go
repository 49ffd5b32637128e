package overtime

import (
	"paytrack/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	overtimes := r.Group("/overtimes")
	overtimes.Use(middleware.AuthMiddleware(), middleware.ExtractUserID(), middleware.RateLimitByUser(3, 10))
	{
		overtimes.GET("", middleware.RBACAuthorize(rbacService, "overtime", "read"), handler.GetAll)
		overtimes.GET("/:id", middleware.RBACAuthorize(rbacService, "overtime", "read"), handler.GetById)
		overtimes.GET("/user/:userId", middleware.RBACAuthorize(rbacService, "overtime", "read"), handler.GetByUser)
		overtimes.POST("", middleware.RBACAuthorize(rbacService, "overtime", "create"), middleware.Idempotency(rdb), handler.Create)
		overtimes.PUT("/:id", middleware.RBACAuthorize(rbacService, "overtime", "update"), handler.Update)
		overtimes.PATCH("/:id/approve", middleware.RBACAuthorize(rbacService, "overtime", "approve"), handler.Approve)
		overtimes.PATCH("/:id/reject", middleware.RBACAuthorize(rbacService, "overtime", "approve"), handler.Reject)
		overtimes.DELETE("/:id", middleware.RBACAuthorize(rbacService, "overtime", "delete"), handler.Delete)
	}
}
