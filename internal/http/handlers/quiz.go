package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

// DefaultQuizLength is used when a start request omits count.
const DefaultQuizLength = 10

type QuizHandler struct {
	quiz     services.QuizService
	sessions services.QuizSessionService
}

func NewQuizHandler(quiz services.QuizService, sessions services.QuizSessionService) *QuizHandler {
	return &QuizHandler{quiz: quiz, sessions: sessions}
}

// GET /api/subjects
func (h *QuizHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.quiz.ListSubjects(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subjects": subjects})
}

// POST /api/quiz/start
// body: { "subject_id": "...", "count": 10 }
func (h *QuizHandler) Start(c *gin.Context) {
	var req struct {
		SubjectID uuid.UUID `json:"subject_id" binding:"required"`
		Count     *int      `json:"count"`
	}
	if !bindJSON(c, &req) {
		return
	}
	count := DefaultQuizLength
	if req.Count != nil {
		count = *req.Count
	}
	view, err := h.sessions.Start(dbcOf(c), req.SubjectID, count)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quiz": view})
}

// GET /api/quiz/current
func (h *QuizHandler) Current(c *gin.Context) {
	view, err := h.sessions.Current(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": view})
}

// PUT /api/quiz/answers
// body: { "question_id": "...", "selected_answer": "A" }
func (h *QuizHandler) Answer(c *gin.Context) {
	var req struct {
		QuestionID     uuid.UUID `json:"question_id" binding:"required"`
		SelectedAnswer string    `json:"selected_answer"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.sessions.Answer(dbcOf(c), req.QuestionID, req.SelectedAnswer)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": view})
}

// POST /api/quiz/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	res, err := h.sessions.Submit(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/quiz/current
func (h *QuizHandler) Reset(c *gin.Context) {
	if err := h.sessions.Reset(dbcOf(c)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/quiz/history?subject_id=
func (h *QuizHandler) History(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	subjectID, ok := optionalUUIDQuery(c, "subject_id")
	if !ok {
		return
	}
	attempts, err := h.quiz.History(dbcOf(c), userID, subjectID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": attempts})
}
