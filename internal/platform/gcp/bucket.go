package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type BucketCategory string

const BucketCategoryResourceBooks BucketCategory = "resource-books"

var (
	// ErrObjectExists is returned when an upload would overwrite a key.
	ErrObjectExists = errors.New("object already exists")
	// ErrStorageDisabled is returned by writes when no storage client could
	// be created. URL resolution keeps working.
	ErrStorageDisabled = errors.New("object storage is not configured")
)

type BucketService interface {
	// UploadFile writes a new object and never replaces an existing one.
	UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	GetPublicURL(category BucketCategory, key string) string
	Enabled() bool
}

type bucketService struct {
	log    *logger.Logger
	client *storage.Client
	cfg    BucketConfig
}

// NewBucketService resolves config from the environment. A storage client
// that cannot be created leaves the service read-only instead of failing.
func NewBucketService(log *logger.Logger) (BucketService, error) {
	cfg, err := BucketConfigFromEnv(log)
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")
	client, err := newStorageClient(context.Background(), cfg)
	if err != nil {
		serviceLog.Warn("Object storage client unavailable; uploads disabled", "error", err)
		client = nil
	}
	serviceLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"resource_books_bucket", cfg.ResourceBooksBucket,
		"public_base_url", cfg.PublicBaseURL,
		"uploads_enabled", client != nil,
	)
	return newBucketService(serviceLog, client, cfg), nil
}

func newBucketService(log *logger.Logger, client *storage.Client, cfg BucketConfig) *bucketService {
	return &bucketService{log: log, client: client, cfg: cfg}
}

func newStorageClient(ctx context.Context, cfg BucketConfig) (*storage.Client, error) {
	if cfg.IsEmulator() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (bs *bucketService) Enabled() bool { return bs != nil && bs.client != nil }

func (bs *bucketService) bucketFor(category BucketCategory) (name, cdn string, err error) {
	switch category {
	case BucketCategoryResourceBooks:
		return bs.cfg.ResourceBooksBucket, bs.cfg.ResourceBooksCDN, nil
	default:
		return "", "", fmt.Errorf("unknown bucket category: %s", category)
	}
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	name, _, err := bs.bucketFor(category)
	if err != nil {
		return err
	}
	if !bs.Enabled() {
		return ErrStorageDisabled
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	obj := bs.client.Bucket(name).Object(key).If(storage.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return fmt.Errorf("%s/%s: %w", name, key, ErrObjectExists)
		}
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	bs.log.Debug("Uploaded object", "bucket", name, "key", key)
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	name, _, err := bs.bucketFor(category)
	if err != nil {
		return err
	}
	if !bs.Enabled() {
		return ErrStorageDisabled
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 30*time.Second)
	defer cancel()
	if err := bs.client.Bucket(name).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, name, err)
	}
	return nil
}

// GetPublicURL prefers the category CDN, then the emulator media endpoint,
// then the configured public base, then storage.googleapis.com.
func (bs *bucketService) GetPublicURL(category BucketCategory, key string) string {
	name, cdn, err := bs.bucketFor(category)
	if err != nil {
		return key
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case cdn != "":
		return fmt.Sprintf("https://%s/%s", cdn, key)
	case bs.cfg.IsEmulator() && bs.cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", bs.cfg.PublicBaseURL, url.PathEscape(name), url.PathEscape(key))
	case bs.cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", bs.cfg.PublicBaseURL, name, key)
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", name, key)
	}
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".epub"):
		return "application/epub+zip"
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return ""
	}
}
