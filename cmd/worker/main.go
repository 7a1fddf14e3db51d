package main

import (
	"blair-ops/internal/app"
	"blair-ops/internal/config"
	"blair-ops/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := app.RunWorker(cfg); err != nil {
		log.Fatal("run worker failed", zap.Error(err))
	}
}
