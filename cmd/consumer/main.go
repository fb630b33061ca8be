package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go-kintai/internal/app"
	"go-kintai/internal/config"
	"go-kintai/internal/logger"

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunAuditConsumer(ctx, cfg, log.Named("app.consumer")); err != nil {
		log.Fatal("audit consumer failed", zap.Error(err))
	}
}
