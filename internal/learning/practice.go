package learning

import (
	"time"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

// PracticeDate is the UTC calendar date key used by daily practice rows.
func PracticeDate(t time.Time) string {
	return t.UTC().Format(types.DateLayout)
}
