package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sprucehealth/callflow/config"
	"github.com/sprucehealth/callflow/engine"
	"github.com/sprucehealth/callflow/logger"
	"github.com/sprucehealth/callflow/telnyx"
	"github.com/sprucehealth/callflow/webhook"
)

func main() {
	cfgPath := config.DefaultFile
	if path := os.Getenv("CALLFLOW_CONFIG"); path != "" {
		cfgPath = path
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("callflow: %v", err)
	}
	if err := logger.Init(cfg.Mode); err != nil {
		log.Fatalf("callflow: logger init failed: %v", err)
	}
	defer logger.Sync()

	client := telnyx.NewClient(cfg.APIKey)
	eng := engine.New(client, engine.Numbers{
		AccountExecutive: cfg.AccountExecNumber,
		SalesEngineer:    cfg.SalesEngineerNumber,
	}, logger.Base())
	app := webhook.NewApp(webhook.NewHandler(eng, logger.Base()))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Base().Info("callflow listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Base().Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Base().Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Base().Error("shutdown failed", zap.Error(err))
	}
	// Drain in-flight commands before exit; their results are still logged.
	_ = eng.Close()
}
