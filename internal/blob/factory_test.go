package blob

import (
	"context"
	"testing"

	appcfg "github.com/fdg312/meal-planner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestNewBlobStoreLocalForced(t *testing.T) {
	logger, logs := observedLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeLocal}, logger)

	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeLocal, mode)
	assert.Nil(t, store)
	assert.Equal(t, 1, logs.FilterMessage("mode=local (forced)").Len())
}

func TestNewBlobStoreAutoEmptyS3FallsBackToLocal(t *testing.T) {
	logger, logs := observedLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeAuto}, logger)

	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeLocal, mode)
	assert.Nil(t, store)
	assert.Equal(t, 1, logs.FilterField(zap.String("code", "s3_not_configured")).Len())
	assert.Equal(t, 1, logs.FilterMessage("mode=local (auto, S3 not configured)").Len())
}

func TestNewBlobStoreAutoPartialWarns(t *testing.T) {
	logger, logs := observedLogger()

	_, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3:   appcfg.S3Config{Bucket: "plans"},
	}, logger)

	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeLocal, mode)
	partial := logs.FilterField(zap.String("code", "s3_partial_config")).All()
	require.Len(t, partial, 1)
	assert.Equal(t, zap.WarnLevel, partial[0].Level)
}

func TestNewBlobStoreS3MissingRequiredReturnsError(t *testing.T) {
	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3:   appcfg.S3Config{Endpoint: "http://localhost:9000"},
	}, nil)

	require.Error(t, err)
	assert.Nil(t, store)
	assert.Empty(t, mode)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestNewBlobStoreS3Configured(t *testing.T) {
	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3: appcfg.S3Config{
			Endpoint:        "http://localhost:9000",
			Bucket:          "plans",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeS3, mode)
	require.NotNil(t, store)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/exports/a.pdf", PublicURL("https://cdn.example.com/", "/exports/a.pdf"))
}
