package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/dbmigrate"
	"github.com/fdg312/meal-planner/internal/httpserver"
	"github.com/fdg312/meal-planner/internal/logging"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("FATAL logger: %v", err)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings {
		logger.Warn("config", zap.String("warning", w))
	}

	printStartupBanner(logger, cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrationsOnStartup {
		target, err := dbmigrate.SelectTarget(cfg, true)
		if err != nil {
			logger.Fatal("startup migrations", zap.Error(err))
		}

		logger.Info("startup migrations", zap.String("command", "up"), zap.String("using", target.Source))
		if err := dbmigrate.Run(ctx, "up", target.URL, logger.Named("migrate")); err != nil {
			logger.Fatal("startup migrations failed", zap.Error(err))
		}
		logger.Info("startup migrations completed")
	}

	server, err := httpserver.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}
	defer server.Close()

	if err := server.Start(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are reported only as "set" / "not set".
func printStartupBanner(logger *zap.Logger, cfg *config.Config) {
	logger.Info("meal planner api",
		zap.String("env", cfg.Env),
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel))

	logger.Info("database",
		zap.String("runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)),
		zap.String("pooled", config.SetOrNot(cfg.DatabaseURLPooled)),
		zap.String("direct", config.SetOrNot(cfg.DatabaseURLDirect)),
		zap.Bool("migrations_on_startup", cfg.RunMigrationsOnStartup))

	logger.Info("auth",
		zap.String("auth_mode", cfg.AuthMode),
		zap.Bool("auth_required", cfg.AuthRequired),
		zap.String("jwt_secret", secretStatus(cfg.JWTSecret, "change_me")),
		zap.String("admin_email", config.NonEmptyOrDash(cfg.AdminEmail)))

	logger.Info("rate limit",
		zap.Int("rps", cfg.RateLimitRPS),
		zap.Int("burst", cfg.RateLimitBurst),
		zap.String("backend", cfg.RateLimitBackend),
		zap.String("redis_url", config.SetOrNot(cfg.RedisURL)))

	blobFields := []zap.Field{zap.String("blob_mode", cfg.Blob.Mode)}
	if cfg.Blob.Mode != config.BlobModeLocal {
		blobFields = append(blobFields, zap.String("s3", cfg.Blob.S3.DiagnosticsSummary()))
	}
	logger.Info("blob", blobFields...)

	aiFields := []zap.Field{
		zap.String("ai_mode", cfg.AIMode),
		zap.Int("timeout_seconds", cfg.AITimeoutSeconds),
	}
	if cfg.AIMode == config.AIModeOpenAI {
		aiFields = append(aiFields,
			zap.String("openai_model", cfg.OpenAIModel),
			zap.String("openai_base_url", cfg.OpenAIBaseURL),
			zap.String("openai_api_key", config.SetOrNot(cfg.OpenAIAPIKey)),
			zap.Float64("temperature", cfg.AITemperature))
	}
	logger.Info("ai", aiFields...)
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
