package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

// MaxPDFUploadBytes caps a resource book upload.
const MaxPDFUploadBytes = 50 << 20

type ResourceBookHandler struct {
	books services.ResourceBookService
}

func NewResourceBookHandler(books services.ResourceBookService) *ResourceBookHandler {
	return &ResourceBookHandler{books: books}
}

// GET /api/subjects/:id/resource-books
func (h *ResourceBookHandler) List(c *gin.Context) {
	subjectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	books, err := h.books.List(dbcOf(c), subjectID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resource_books": books})
}

// POST /api/subjects/:id/resource-books/:bookId/pdf
// multipart form field "file"
func (h *ResourceBookHandler) UploadPDF(c *gin.Context) {
	subjectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := uuidParam(c, "bookId")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPDFUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("A PDF file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	defer f.Close()

	book, err := h.books.UploadPDF(dbcOf(c), subjectID, bookID, fh.Filename, f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resource_book": book})
}
