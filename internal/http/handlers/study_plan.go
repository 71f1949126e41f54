package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type StudyPlanHandler struct {
	plans services.StudyPlanService
}

func NewStudyPlanHandler(plans services.StudyPlanService) *StudyPlanHandler {
	return &StudyPlanHandler{plans: plans}
}

// GET /api/study-plans
func (h *StudyPlanHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	plans, err := h.plans.List(dbcOf(c), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"study_plans": plans})
}

// POST /api/study-plans
func (h *StudyPlanHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		SubjectID   uuid.UUID `json:"subject_id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartDate   string    `json:"start_date"`
		EndDate     string    `json:"end_date"`
		DailyGoal   int       `json:"daily_goal"`
	}
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.plans.Create(dbcOf(c), userID, services.CreateStudyPlanInput{
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DailyGoal:   req.DailyGoal,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"study_plan": plan})
}

// DELETE /api/study-plans/:id
func (h *StudyPlanHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.plans.Delete(dbcOf(c), userID, planID); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
