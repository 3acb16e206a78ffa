package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/meal-planner/internal/config"
	"go.uber.org/zap"
)

// NewBlobStore builds a blob store using mode local|s3|auto.
// Local mode returns a nil Store; exports are then streamed back directly.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger *zap.Logger) (Store, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("blob")

	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		log.Info("mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			fields := []zap.Field{zap.String("code", code), zap.String("summary", cfg.S3.DiagnosticsSummary())}
			if level == "warn" {
				log.Warn("s3 "+msg, fields...)
			} else {
				log.Info("s3 "+msg, fields...)
			}
			log.Info("mode=local (auto, S3 not configured)")
			return nil, appcfg.BlobModeLocal, nil
		}

		log.Info("s3 ready", zap.String("code", "s3_ready"), zap.String("summary", cfg.S3.DiagnosticsSummary()))
		store, err := newS3FromConfig(ctx, cfg.S3)
		if err != nil {
			log.Warn("s3 init failed, fallback=local", zap.Error(err))
			return nil, appcfg.BlobModeLocal, nil
		}

		log.Info("mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			log.Error("s3 config incomplete",
				zap.String("code", "s3_config_incomplete"),
				zap.Strings("missing", missing),
				zap.String("summary", cfg.S3.DiagnosticsSummary()))
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		log.Info("s3 ready", zap.String("code", "s3_ready"), zap.String("summary", cfg.S3.DiagnosticsSummary()))
		store, err := newS3FromConfig(ctx, cfg.S3)
		if err != nil {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		log.Info("mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func newS3FromConfig(ctx context.Context, c appcfg.S3Config) (*S3Store, error) {
	return NewS3Store(ctx, c.Endpoint, c.Region, c.Bucket, c.AccessKeyID, c.SecretAccessKey)
}
