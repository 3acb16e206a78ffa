package config

import (
	"fmt"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

// S3Config описывает S3-совместимое хранилище для экспортов планов.
type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

// MissingRequired returns env names of required S3 settings that are empty.
// Region and public base URL are optional.
func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) isEmpty() bool {
	return strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == "" &&
		strings.TrimSpace(c.PublicBaseURL) == ""
}

// Diagnostics classifies the S3 settings for startup logging.
func (c S3Config) Diagnostics() (level string, code string, msg string) {
	if c.isEmpty() {
		return "info", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "warn", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "info", "s3_ready", "ready"
}

// DiagnosticsSummary returns a summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds prefer_public_url=%t access_key_id=%s secret_access_key=%s",
		NonEmptyOrDash(c.Endpoint),
		NonEmptyOrDash(c.Region),
		NonEmptyOrDash(c.Bucket),
		NonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		c.PreferPublicURL,
		SetOrNot(c.AccessKeyID),
		SetOrNot(c.SecretAccessKey),
	)
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

// NonEmptyOrDash is used by startup banners to print optional values.
func NonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

// SetOrNot masks a secret for logging.
func SetOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}
