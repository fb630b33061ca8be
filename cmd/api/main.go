package main

import (
	"context"
	"flag"
	"os"

	"go-kintai/internal/app"
	"go-kintai/internal/bootstrap"
	"go-kintai/internal/config"
	"go-kintai/internal/logger"
	"go-kintai/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config (defaults to $KINTAI_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		zap.NewExample().Fatal("load config failed", zap.Error(err))
	}

	log := logger.New(cfg.Log)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	apperror.Init()
	gin.SetMode(cfg.Server.GinMode)
	r := gin.Default()

	// build dependency + routes
	a, err := app.BuildApp(context.Background(), r, cfg, log)
	if err != nil {
		log.Fatal("build app failed", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close app", zap.Error(err))
		}
	}()

	auditLogger := bootstrap.NewStdoutAuditLogger(log)
	auditLogger.Log(context.Background(), bootstrap.AuditLog{
		Action:  "SERVER_START",
		Message: "Server is starting",
		Meta: map[string]any{
			"backend": cfg.Store.Backend,
			"pid":     os.Getpid(),
		},
	})
	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		auditLogger,
	)
}
