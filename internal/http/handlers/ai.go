package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/platform/ai"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type AIHandler struct {
	ai services.AIService
}

func NewAIHandler(svc services.AIService) *AIHandler {
	return &AIHandler{ai: svc}
}

// POST /api/ai/chat
// body: { "messages": [{"role":"user","content":"..."}], "system_prompt": "..." }
func (h *AIHandler) Chat(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Messages     []ai.Message `json:"messages"`
		SystemPrompt string       `json:"system_prompt"`
	}
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.ai.Chat(dbcOf(c), userID, req.Messages, req.SystemPrompt)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, reply)
}

// POST /api/ai/summarize
// body: { "text": "...", "subject_name": "..." }
func (h *AIHandler) Summarize(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Text        string `json:"text"`
		SubjectName string `json:"subject_name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.ai.Summarize(dbcOf(c), userID, req.Text, req.SubjectName)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, reply)
}

// GET /api/ai/status
func (h *AIHandler) Status(c *gin.Context) {
	response.RespondOK(c, h.ai.Status())
}
