package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/brokermobile/broker-client/internal/config"
	"github.com/brokermobile/broker-client/internal/logger"
)

const _cfgFilePathDefault = "./configs/broker.yaml"

func main() {
	dotenvErr := godotenv.Load()

	cfgPath := os.Getenv("BROKER_CONFIG")
	if cfgPath == "" {
		cfgPath = _cfgFilePathDefault
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if dotenvErr != nil {
		zapLogger.Debugf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(ctx, cfg, zapLogger).Execute(); err != nil {
		os.Exit(1)
	}
}
