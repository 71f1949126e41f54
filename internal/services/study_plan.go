package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/domain/notify"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/validate"
)

// planProgressConcurrency bounds the per-plan practice lookups.
const planProgressConcurrency = 8

type StudyPlanView struct {
	*types.StudyPlan
	SubjectName string `json:"subject_name"`
	Progress    int    `json:"progress"`
}

type CreateStudyPlanInput struct {
	SubjectID   uuid.UUID
	Title       string
	Description string
	StartDate   string
	EndDate     string
	DailyGoal   int
}

type StudyPlanService interface {
	List(dbc dbctx.Context, userID uuid.UUID) ([]StudyPlanView, error)
	Create(dbc dbctx.Context, userID uuid.UUID, in CreateStudyPlanInput) (*types.StudyPlan, error)
	Delete(dbc dbctx.Context, userID, planID uuid.UUID) error
}

type studyPlanService struct {
	db            *gorm.DB
	log           *logger.Logger
	planRepo      repos.StudyPlanRepo
	practiceRepo  repos.DailyPracticeRepo
	subjectRepo   repos.SubjectRepo
	notifications NotificationService
}

func NewStudyPlanService(
	db *gorm.DB,
	log *logger.Logger,
	planRepo repos.StudyPlanRepo,
	practiceRepo repos.DailyPracticeRepo,
	subjectRepo repos.SubjectRepo,
	notifications NotificationService,
) StudyPlanService {
	return &studyPlanService{
		db:            db,
		log:           log.With("service", "StudyPlanService"),
		planRepo:      planRepo,
		practiceRepo:  practiceRepo,
		subjectRepo:   subjectRepo,
		notifications: notifications,
	}
}

func (ss *studyPlanService) List(dbc dbctx.Context, userID uuid.UUID) ([]StudyPlanView, error) {
	plans, err := ss.planRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, apierr.Persistence("list study plans", err)
	}

	out := make([]StudyPlanView, len(plans))
	g, gctx := errgroup.WithContext(dbc.Ctx)
	g.SetLimit(planProgressConcurrency)
	for i, p := range plans {
		i, p := i, p
		out[i] = StudyPlanView{StudyPlan: p, SubjectName: learning.SubjectName(p.Subject)}
		g.Go(func() error {
			rows, err := ss.practiceRepo.ListInRange(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, userID, p.SubjectID, p.StartDate, p.EndDate)
			if err != nil {
				// progress degrades to 0 rather than failing the list
				ss.log.Warn("Study plan progress lookup failed", "plan_id", p.ID, "error", err)
				return nil
			}
			out[i].Progress = learning.PlanProgress(p, rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func validatePlan(in CreateStudyPlanInput) string {
	if msg := validate.Required(in.Title, "Title"); msg != "" {
		return msg
	}
	if in.SubjectID == uuid.Nil {
		return "Subject is required"
	}
	start, err := time.Parse(types.DateLayout, in.StartDate)
	if err != nil {
		return "Start date must be a date (YYYY-MM-DD)"
	}
	end, err := time.Parse(types.DateLayout, in.EndDate)
	if err != nil {
		return "End date must be a date (YYYY-MM-DD)"
	}
	if end.Before(start) {
		return "End date must be after start date"
	}
	if in.DailyGoal < 1 {
		return "Daily goal must be at least 1"
	}
	return ""
}

func (ss *studyPlanService) Create(dbc dbctx.Context, userID uuid.UUID, in CreateStudyPlanInput) (*types.StudyPlan, error) {
	if msg := validatePlan(in); msg != "" {
		return nil, apierr.Validation(msg)
	}
	subjects, err := ss.subjectRepo.GetByIDs(dbc, []uuid.UUID{in.SubjectID})
	if err != nil {
		return nil, apierr.Persistence("load subject", err)
	}
	if len(subjects) == 0 {
		return nil, apierr.NotFound("subject")
	}

	plan := &types.StudyPlan{
		UserID:    userID,
		SubjectID: in.SubjectID,
		Title:     strings.TrimSpace(in.Title),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		DailyGoal: in.DailyGoal,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		plan.Description = &d
	}
	if _, err := ss.planRepo.Create(dbc, []*types.StudyPlan{plan}); err != nil {
		return nil, apierr.Persistence("create study plan", err)
	}
	plan.Subject = subjects[0]

	if ss.notifications != nil {
		_, nErr := ss.notifications.Create(dbc, NewNotification{
			UserID:   userID,
			Type:     notify.TypeStudyPlanCreated,
			Title:    "Study plan created",
			Message:  fmt.Sprintf("%s: %d questions a day until %s.", plan.Title, plan.DailyGoal, plan.EndDate),
			Icon:     "📅",
			Metadata: map[string]any{"study_plan_id": plan.ID.String()},
		})
		if nErr != nil {
			ss.log.Warn("Study plan notification failed", "plan_id", plan.ID, "error", nErr)
		}
	}
	return plan, nil
}

func (ss *studyPlanService) Delete(dbc dbctx.Context, userID, planID uuid.UUID) error {
	if err := ss.planRepo.DeleteForUser(dbc, userID, planID); err != nil {
		if isNotFound(err) {
			return apierr.NotFound("study plan")
		}
		return apierr.Persistence("delete study plan", err)
	}
	return nil
}
