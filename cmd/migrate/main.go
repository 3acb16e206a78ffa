package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/dbmigrate"
	"github.com/fdg312/meal-planner/internal/logging"
)

func main() {
	usage := "usage: go run ./cmd/migrate [" + strings.Join(dbmigrate.Commands, "|") + "]"
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	command := os.Args[1]
	if !dbmigrate.IsCommand(command) {
		log.Fatalf("unsupported command %q; %s", command, usage)
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	target, err := dbmigrate.SelectTarget(cfg, false)
	if err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	if target.Warning != "" {
		logger.Warn("migrate", zap.String("warning", target.Warning))
	}
	logger.Info("migrate", zap.String("command", command), zap.String("using", target.Source))

	if err := dbmigrate.Run(context.Background(), command, target.URL, logger); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	logger.Info("migrate completed", zap.String("command", command))
}
