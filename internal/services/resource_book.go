package services

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/gcp"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type ResourceBookView struct {
	*types.ResourceBook
	PDFURL string `json:"pdf_url,omitempty"`
}

type ResourceBookService interface {
	List(dbc dbctx.Context, subjectID uuid.UUID) ([]ResourceBookView, error)
	UploadPDF(dbc dbctx.Context, subjectID, bookID uuid.UUID, filename string, file io.Reader) (*ResourceBookView, error)
}

type resourceBookService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.ResourceBookRepo
	buckets gcp.BucketService
	now     func() time.Time
}

func NewResourceBookService(db *gorm.DB, log *logger.Logger, repo repos.ResourceBookRepo, buckets gcp.BucketService) ResourceBookService {
	return &resourceBookService{
		db:      db,
		log:     log.With("service", "ResourceBookService"),
		repo:    repo,
		buckets: buckets,
		now:     time.Now,
	}
}

func (rs *resourceBookService) List(dbc dbctx.Context, subjectID uuid.UUID) ([]ResourceBookView, error) {
	books, err := rs.repo.ListActiveBySubject(dbc, subjectID)
	if err != nil {
		return nil, apierr.Persistence("list resource books", err)
	}
	out := make([]ResourceBookView, 0, len(books))
	for _, b := range books {
		out = append(out, rs.view(b))
	}
	return out, nil
}

func (rs *resourceBookService) view(b *types.ResourceBook) ResourceBookView {
	v := ResourceBookView{ResourceBook: b}
	if b.PDFPath != "" && rs.buckets != nil {
		v.PDFURL = rs.buckets.GetPublicURL(gcp.BucketCategoryResourceBooks, b.PDFPath)
	}
	return v
}

// pdfKey names an upload <subject>/<book>_<unix millis>.<ext>. A filename
// without a dot is used whole as the extension.
func pdfKey(subjectID, bookID uuid.UUID, filename string, at time.Time) string {
	ext := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i+1:]
	}
	return fmt.Sprintf("%s/%s_%d.%s", subjectID, bookID, at.UnixMilli(), ext)
}

func (rs *resourceBookService) UploadPDF(dbc dbctx.Context, subjectID, bookID uuid.UUID, filename string, file io.Reader) (*ResourceBookView, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, apierr.Validation("A file is required")
	}
	books, err := rs.repo.GetByIDs(dbc, []uuid.UUID{bookID})
	if err != nil {
		return nil, apierr.Persistence("load resource book", err)
	}
	if len(books) == 0 || books[0].SubjectID != subjectID {
		return nil, apierr.NotFound("resource book")
	}
	book := books[0]
	if rs.buckets == nil || !rs.buckets.Enabled() {
		return nil, apierr.Unavailable(gcp.ErrStorageDisabled)
	}

	key := pdfKey(subjectID, bookID, filename, rs.now())
	if err := rs.buckets.UploadFile(dbc, gcp.BucketCategoryResourceBooks, key, file); err != nil {
		switch {
		case errors.Is(err, gcp.ErrObjectExists):
			return nil, apierr.New(http.StatusConflict, apierr.CodeConflict, err)
		case errors.Is(err, gcp.ErrStorageDisabled):
			return nil, apierr.Unavailable(err)
		default:
			return nil, apierr.New(http.StatusBadGateway, "storage_error", fmt.Errorf("upload pdf: %w", err))
		}
	}

	previous := book.PDFPath
	if err := rs.repo.UpdatePDFPath(dbc, book.ID, key); err != nil {
		return nil, apierr.Persistence("update pdf path", err)
	}
	book.PDFPath = key
	if previous != "" && previous != key {
		if err := rs.buckets.DeleteFile(dbc, gcp.BucketCategoryResourceBooks, previous); err != nil {
			rs.log.Warn("Failed to remove superseded pdf", "book_id", book.ID, "key", previous, "error", err)
		}
	}
	v := rs.view(book)
	return &v, nil
}
