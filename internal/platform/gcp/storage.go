package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/studyquiz-backend/internal/platform/envutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

// DefaultResourceBooksBucket is used when RESOURCE_BOOKS_GCS_BUCKET_NAME is unset.
const DefaultResourceBooksBucket = "resource-books"

type BucketConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string

	ResourceBooksBucket string
	ResourceBooksCDN    string
	// PublicBaseURL overrides storage.googleapis.com when building URLs.
	PublicBaseURL string
}

func (c BucketConfig) IsEmulator() bool { return c.Mode == ObjectStorageModeGCSEmulator }

// BucketConfigFromEnv reads OBJECT_STORAGE_MODE, STORAGE_EMULATOR_HOST,
// OBJECT_STORAGE_PUBLIC_BASE_URL and the resource-books bucket variables.
// An emulator host with no explicit mode selects emulator mode.
func BucketConfigFromEnv(log *logger.Logger) (BucketConfig, error) {
	cfg := BucketConfig{
		EmulatorHost:        strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", "", log), "/"),
		ResourceBooksBucket: envutil.String("RESOURCE_BOOKS_GCS_BUCKET_NAME", DefaultResourceBooksBucket, log),
		ResourceBooksCDN:    envutil.String("RESOURCE_BOOKS_CDN_DOMAIN", "", log),
	}
	switch mode := ObjectStorageMode(strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", "", log))); mode {
	case "":
		cfg.Mode = ObjectStorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	}
	if cfg.IsEmulator() {
		if !isAbsoluteURL(cfg.EmulatorHost) {
			return cfg, fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST as an absolute URL, got %q", cfg.Mode, cfg.EmulatorHost)
		}
	}
	base, err := publicBaseURL(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", "", log), cfg)
	if err != nil {
		return cfg, err
	}
	cfg.PublicBaseURL = base
	return cfg, nil
}

func publicBaseURL(raw string, cfg BucketConfig) (string, error) {
	if raw != "" {
		if !isAbsoluteURL(raw) {
			return "", fmt.Errorf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", raw)
		}
		return strings.TrimRight(raw, "/"), nil
	}
	if cfg.IsEmulator() {
		return cfg.EmulatorHost, nil
	}
	return "", nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
