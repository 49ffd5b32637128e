package salary

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
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware(), middleware.ExtractUserID(), middleware.RateLimitByUser(3, 10))
	{
		salaries.GET("", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetAll)
		salaries.GET("/:id", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetById)
		salaries.GET("/user/:userId", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetByUser)
		salaries.POST("", middleware.RBACAuthorize(rbacService, "salary", "create"), middleware.Idempotency(rdb), handler.Create)
		salaries.PUT("/:id", middleware.RBACAuthorize(rbacService, "salary", "update"), handler.Update)
		salaries.DELETE("/:id", middleware.RBACAuthorize(rbacService, "salary", "delete"), handler.Delete)
	}
}
