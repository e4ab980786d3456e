package app

import (
	"os"

	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure and registers every module's routes on
// the router. The caller owns the server lifecycle.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())

	if err := registerModules(router, db, gormDB, rdb); err != nil {
		return err
	}

	zap.L().Info("application modules registered")
	return nil
}
