package app

import (
	"database/sql"
	"path/filepath"

	"paytrack/internal/auth"
	"paytrack/internal/holiday"
	"paytrack/internal/leave"
	"paytrack/internal/messaging/kafka"
	"paytrack/internal/overtime"
	"paytrack/internal/rbac"
	"paytrack/internal/salary"
	"paytrack/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer(
		filepath.Join("internal", "rbac", "model.conf"),
		filepath.Join("internal", "rbac", "policy.csv"),
	)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo)
	userService := user.NewServiceWithOutbox(db, userRepo, outboxRepo)
	salaryService := salary.NewServiceWithOutbox(db, salaryRepo, outboxRepo)
	overtimeService := overtime.NewServiceWithOutbox(db, overtimeRepo, outboxRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo)
	holidayService := holiday.NewServiceWithOutbox(db, holidayRepo, outboxRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	salaryHandler := salary.NewHandlerWithRedis(salaryService, rdb)
	overtimeHandler := overtime.NewHandlerWithRedis(overtimeService, rdb)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	holidayHandler := holiday.NewHandlerWithRedis(holidayService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService)
		salary.RegisterRoutes(api, salaryHandler, rbacService, rdb)
		overtime.RegisterRoutes(api, overtimeHandler, rbacService, rdb)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		holiday.RegisterRoutes(api, holidayHandler, rbacService, rdb)
	}

	return nil
}
