package holiday

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
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware(), middleware.ExtractUserID(), middleware.RateLimitByUser(3, 10))
	{
		holidays.GET("", middleware.RBACAuthorize(rbacService, "holiday", "read"), handler.GetAll)
		holidays.GET("/:id", middleware.RBACAuthorize(rbacService, "holiday", "read"), handler.GetById)
		holidays.POST("", middleware.RBACAuthorize(rbacService, "holiday", "create"), middleware.Idempotency(rdb), handler.Create)
		holidays.PUT("/:id", middleware.RBACAuthorize(rbacService, "holiday", "update"), handler.Update)
		holidays.DELETE("/:id", middleware.RBACAuthorize(rbacService, "holiday", "delete"), handler.Delete)
	}
}
