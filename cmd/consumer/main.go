package main

import (
	"os"

	"github.com/mikexportit-jpg/attendance/internal/app"
	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The consumer follows attendance activity topics and keeps the cached
// monthly reports coherent.
func main() {
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunConsumer(); err != nil {
		logger.Fatal("run report cache consumer failed", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
