package app

import (
	"database/sql"

	"github.com/mikexportit-jpg/attendance/internal/advance"
	"github.com/mikexportit-jpg/attendance/internal/attendance"
	"github.com/mikexportit-jpg/attendance/internal/auth"
	"github.com/mikexportit-jpg/attendance/internal/breaksession"
	"github.com/mikexportit-jpg/attendance/internal/deduction"
	"github.com/mikexportit-jpg/attendance/internal/importer"
	"github.com/mikexportit-jpg/attendance/internal/leave"
	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka"
	"github.com/mikexportit-jpg/attendance/internal/qrtoken"
	"github.com/mikexportit-jpg/attendance/internal/rbac"
	"github.com/mikexportit-jpg/attendance/internal/report"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
	"github.com/mikexportit-jpg/attendance/internal/user"

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
	policy := schedule.DefaultPolicy()

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	breakRepo := breaksession.NewRepository(gormDB)
	deductionRepo := deduction.NewRepository(gormDB)
	advanceRepo := advance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(userRepo)
	userService := user.NewService(db, userRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, breakRepo, deductionRepo, userRepo, outboxRepo, policy)
	breakService := breaksession.NewService(db, breakRepo, policy)
	deductionService := deduction.NewService(db, deductionRepo)
	advanceService := advance.NewService(db, advanceRepo, userRepo)
	leaveService := leave.NewService(db, leaveRepo)
	importerService := importer.NewService(db, attendanceRepo, userRepo, outboxRepo, policy)
	qrService := qrtoken.NewService(rdb, userRepo, attendanceService)

	reportCache := report.NewCache(rdb)
	reportService := report.NewService(attendanceRepo, breakRepo, deductionRepo, advanceRepo, userRepo, policy, reportCache)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	breakHandler := breaksession.NewHandler(breakService)
	deductionHandler := deduction.NewHandler(deductionService)
	advanceHandler := advance.NewHandler(advanceService)
	leaveHandler := leave.NewHandler(leaveService)
	importerHandler := importer.NewHandler(importerService)
	qrHandler := qrtoken.NewHandler(qrService)
	reportHandler := report.NewHandler(reportService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		breaksession.RegisterRoutes(api, breakHandler, rbacService)
		deduction.RegisterRoutes(api, deductionHandler, rbacService)
		advance.RegisterRoutes(api, advanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		importer.RegisterRoutes(api, importerHandler, rbacService, rdb)
		qrtoken.RegisterRoutes(api, qrHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
	}

	return nil
}
