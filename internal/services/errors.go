package services

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
)

var (
	errNoRequestData      = apierr.Unauthorized(errors.New("authentication required"))
	errInvalidCredentials = apierr.Unauthorized(errors.New("Invalid email or password"))
	errInvalidToken       = apierr.Unauthorized(errors.New("Invalid or expired token"))
	errEmailTaken         = apierr.New(http.StatusConflict, apierr.CodeConflict, errors.New("An account with this email already exists"))
	errNoActiveAttempt    = apierr.New(http.StatusConflict, apierr.CodeNoActiveQuiz, errors.New("No quiz in progress"))
)

// uniqueViolation is the Postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
