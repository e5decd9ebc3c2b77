package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap/zapcore"

	"github.com/usermgmt/admin-web/internal/auditlog"
	"github.com/usermgmt/admin-web/internal/dto"
	"github.com/usermgmt/admin-web/internal/handler"
	"github.com/usermgmt/admin-web/internal/repository"
	"github.com/usermgmt/admin-web/internal/service"
	"github.com/usermgmt/admin-web/pkg/config"
	"github.com/usermgmt/admin-web/pkg/database"
	"github.com/usermgmt/admin-web/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	if err := database.Seed(db); err != nil {
		logr.Sugar().Fatalw("failed to seed database", "error", err)
	}

	validate := validator.New()
	if err := dto.RegisterValidations(validate); err != nil {
		logr.Sugar().Fatalw("failed to register validations", "error", err)
	}

	minLevel, err := zapcore.ParseLevel(cfg.Audit.MinLevel)
	if err != nil {
		minLevel = zapcore.InfoLevel
	}

	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewLogRepository(db)

	metricsSvc := service.NewMetricsService()
	sink := auditlog.NewSink(logRepo, minLevel, logr, metricsSvc)

	userSvc := service.NewUserService(userRepo, logr)
	logSvc := service.NewLogService(logRepo, logr)
	exportSvc := service.NewExportService(userRepo)

	userHandler := handler.NewUserHandler(userSvc, logSvc, exportSvc, sink, validate, logr)
	logHandler := handler.NewLogHandler(logSvc, userSvc, sink, logr)

	r := handler.NewRouter("web/templates/*.html", userHandler, logHandler, metricsSvc, logr)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
