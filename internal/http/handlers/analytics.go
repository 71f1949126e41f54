package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
	progress  services.ProgressService
}

func NewAnalyticsHandler(analytics services.AnalyticsService, progress services.ProgressService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, progress: progress}
}

// GET /api/analytics/mistakes?subject_id=&filter=all|recent|frequent&sort=recent|frequent|difficulty
func (h *AnalyticsHandler) Mistakes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	subjectID, ok := optionalUUIDQuery(c, "subject_id")
	if !ok {
		return
	}
	mistakes, err := h.analytics.Mistakes(dbcOf(c), services.MistakeQuery{
		UserID:    userID,
		SubjectID: subjectID,
		Filter:    learning.ParseMistakeFilter(c.Query("filter")),
		Sort:      learning.ParseMistakeSort(c.Query("sort")),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mistakes": mistakes})
}

// GET /api/analytics/mistakes/summary?subject_id=
func (h *AnalyticsHandler) MistakeSummary(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	subjectID, ok := optionalUUIDQuery(c, "subject_id")
	if !ok {
		return
	}
	summary, err := h.analytics.MistakeSummary(dbcOf(c), userID, subjectID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, summary)
}

// GET /api/analytics/daily-practice?subject_id=
func (h *AnalyticsHandler) DailyPractice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	subjectID, ok := optionalUUIDQuery(c, "subject_id")
	if !ok {
		return
	}
	rows, err := h.analytics.DailyPractice(dbcOf(c), userID, subjectID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, gin.H{
			"id":                  r.ID,
			"subject_id":          r.SubjectID,
			"subject_name":        learning.SubjectName(r.Subject),
			"practice_date":       r.PracticeDate,
			"questions_attempted": r.QuestionsAttempted,
			"average_score":       r.AverageScore,
		})
	}
	response.RespondOK(c, gin.H{"daily_practice": out})
}

// GET /api/analytics/leaderboard?subject_id=
func (h *AnalyticsHandler) Leaderboard(c *gin.Context) {
	subjectID, ok := optionalUUIDQuery(c, "subject_id")
	if !ok {
		return
	}
	board, err := h.analytics.Leaderboard(dbcOf(c), subjectID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": board})
}

// GET /api/analytics/streak?subject_id=
func (h *AnalyticsHandler) Streak(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	subjectID, ok := optionalUUIDQuery(c, "subject_id")
	if !ok {
		return
	}
	streak, err := h.analytics.Streak(dbcOf(c), userID, subjectID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"streak": streak})
}

// GET /api/achievements
func (h *AnalyticsHandler) Achievements(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	achievements, err := h.progress.Achievements(dbcOf(c), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": achievements})
}

// GET /api/progress-reports?period=week|month|3months|all&subject_id=
func (h *AnalyticsHandler) ProgressReport(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	subjectID, ok := optionalUUIDQuery(c, "subject_id")
	if !ok {
		return
	}
	report, err := h.progress.Report(dbcOf(c), userID, subjectID, learning.ParsePeriod(c.Query("period")))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, report)
}
