package gcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

func TestGetPublicURL(t *testing.T) {
	key := "/subj/book_1.pdf"
	cases := []struct {
		name string
		cfg  BucketConfig
		want string
	}{
		{
			name: "gcs default",
			cfg:  BucketConfig{Mode: ObjectStorageModeGCS, ResourceBooksBucket: "books"},
			want: "https://storage.googleapis.com/books/subj/book_1.pdf",
		},
		{
			name: "cdn wins",
			cfg:  BucketConfig{Mode: ObjectStorageModeGCS, ResourceBooksBucket: "books", ResourceBooksCDN: "cdn.example.com", PublicBaseURL: "http://x"},
			want: "https://cdn.example.com/subj/book_1.pdf",
		},
		{
			name: "public base",
			cfg:  BucketConfig{Mode: ObjectStorageModeGCS, ResourceBooksBucket: "books", PublicBaseURL: "http://localhost:4443"},
			want: "http://localhost:4443/books/subj/book_1.pdf",
		},
		{
			name: "emulator media",
			cfg:  BucketConfig{Mode: ObjectStorageModeGCSEmulator, ResourceBooksBucket: "books", PublicBaseURL: "http://localhost:4443"},
			want: "http://localhost:4443/storage/v1/b/books/o/subj%2Fbook_1.pdf?alt=media",
		},
	}
	for _, tc := range cases {
		bs := newBucketService(logger.Nop(), nil, tc.cfg)
		if got := bs.GetPublicURL(BucketCategoryResourceBooks, key); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestUploadWithoutClientIsDisabled(t *testing.T) {
	bs := newBucketService(logger.Nop(), nil, BucketConfig{ResourceBooksBucket: "books"})
	if bs.Enabled() {
		t.Fatalf("Enabled: want=false")
	}
	err := bs.UploadFile(dbctx.New(context.Background()), BucketCategoryResourceBooks, "a.pdf", strings.NewReader("x"))
	if !errors.Is(err, ErrStorageDisabled) {
		t.Fatalf("UploadFile: want ErrStorageDisabled got %v", err)
	}
	err = bs.UploadFile(dbctx.New(context.Background()), BucketCategory("avatars"), "a.pdf", strings.NewReader("x"))
	if err == nil || errors.Is(err, ErrStorageDisabled) {
		t.Fatalf("UploadFile with unknown category: got %v", err)
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := contentTypeForKey("a/B.PDF"); got != "application/pdf" {
		t.Fatalf("pdf: %q", got)
	}
	if got := contentTypeForKey("a/b.bin"); got != "" {
		t.Fatalf("unknown: %q", got)
	}
}
