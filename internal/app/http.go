package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/http"
	httpH "github.com/yungbote/studyquiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyquiz-backend/internal/http/middleware"
	"github.com/yungbote/studyquiz-backend/internal/observability"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Quiz         *httpH.QuizHandler
	Analytics    *httpH.AnalyticsHandler
	StudyPlan    *httpH.StudyPlanHandler
	Notification *httpH.NotificationHandler
	ResourceBook *httpH.ResourceBookHandler
	AI           *httpH.AIHandler
	Voice        *httpH.VoiceHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Auth:         httpH.NewAuthHandler(s.Auth),
		User:         httpH.NewUserHandler(s.User),
		Quiz:         httpH.NewQuizHandler(s.Quiz, s.QuizSession),
		Analytics:    httpH.NewAnalyticsHandler(s.Analytics, s.Progress),
		StudyPlan:    httpH.NewStudyPlanHandler(s.StudyPlan),
		Notification: httpH.NewNotificationHandler(s.Notification),
		ResourceBook: httpH.NewResourceBookHandler(s.ResourceBook),
		AI:           httpH.NewAIHandler(s.AI),
		Voice:        httpH.NewVoiceHandler(s.Voice),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		ServiceName:         cfg.ServiceName,
		AllowedOrigins:      cfg.AllowedOrigins,
		Metrics:             metrics,
		HealthHandler:       h.Health,
		AuthHandler:         h.Auth,
		AuthMiddleware:      mw.Auth,
		UserHandler:         h.User,
		QuizHandler:         h.Quiz,
		AnalyticsHandler:    h.Analytics,
		StudyPlanHandler:    h.StudyPlan,
		NotificationHandler: h.Notification,
		ResourceBookHandler: h.ResourceBook,
		AIHandler:           h.AI,
		VoiceHandler:        h.Voice,
	})
}
