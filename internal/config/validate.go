package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Validate collects every fatal misconfiguration so startup reports them together.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.AIMode == AIModeOpenAI && c.OpenAIAPIKey == "" {
		result = multierror.Append(result, errors.New("OPENAI_API_KEY is required when AI_MODE=openai"))
	}

	if c.Blob.Mode == BlobModeS3 {
		if missing := c.Blob.S3.MissingRequired(); len(missing) > 0 {
			result = multierror.Append(result, fmt.Errorf("BLOB_MODE=s3 but S3 config is incomplete, missing: %s", strings.Join(missing, ", ")))
		}
	}

	if c.RateLimitBackend == RateLimitBackendRedis && c.RedisURL == "" {
		result = multierror.Append(result, errors.New("REDIS_URL is required when RATE_LIMIT_BACKEND=redis"))
	}

	if c.IsProduction() {
		if c.AuthMode != AuthModeNone && c.JWTSecret == defaultJWTSecret {
			result = multierror.Append(result, fmt.Errorf("JWT_SECRET must not be %q in %s", defaultJWTSecret, c.Env))
		}
		if c.DatabaseURL == "" {
			result = multierror.Append(result, fmt.Errorf("DATABASE_URL must be set in %s", c.Env))
		}
	}

	return result.ErrorOrNil()
}
