package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyquiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyquiz-backend/internal/http/middleware"
	"github.com/yungbote/studyquiz-backend/internal/observability"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	QuizHandler         *httpH.QuizHandler
	AnalyticsHandler    *httpH.AnalyticsHandler
	StudyPlanHandler    *httpH.StudyPlanHandler
	NotificationHandler *httpH.NotificationHandler
	ResourceBookHandler *httpH.ResourceBookHandler
	AIHandler           *httpH.AIHandler
	VoiceHandler        *httpH.VoiceHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics))
	}
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	guest := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			guest.Use(cfg.AuthMiddleware.RequireGuest())
		}
		// Auth (guest only)
		if cfg.AuthHandler != nil {
			guest.POST("/register", cfg.AuthHandler.Register)
			guest.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateName)
		}

		// Subjects + quizzes
		if cfg.QuizHandler != nil {
			protected.GET("/subjects", cfg.QuizHandler.ListSubjects)
			protected.POST("/quiz/start", cfg.QuizHandler.Start)
			protected.GET("/quiz/current", cfg.QuizHandler.Current)
			protected.PUT("/quiz/answers", cfg.QuizHandler.Answer)
			protected.POST("/quiz/submit", cfg.QuizHandler.Submit)
			protected.DELETE("/quiz/current", cfg.QuizHandler.Reset)
			protected.GET("/quiz/history", cfg.QuizHandler.History)
		}

		// Resource books
		if cfg.ResourceBookHandler != nil {
			protected.GET("/subjects/:id/resource-books", cfg.ResourceBookHandler.List)
			protected.POST("/subjects/:id/resource-books/:bookId/pdf", cfg.ResourceBookHandler.UploadPDF)
		}

		// Analytics + progress
		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics/mistakes", cfg.AnalyticsHandler.Mistakes)
			protected.GET("/analytics/mistakes/summary", cfg.AnalyticsHandler.MistakeSummary)
			protected.GET("/analytics/daily-practice", cfg.AnalyticsHandler.DailyPractice)
			protected.GET("/analytics/leaderboard", cfg.AnalyticsHandler.Leaderboard)
			protected.GET("/analytics/streak", cfg.AnalyticsHandler.Streak)
			protected.GET("/achievements", cfg.AnalyticsHandler.Achievements)
			protected.GET("/progress-reports", cfg.AnalyticsHandler.ProgressReport)
		}

		// Study plans
		if cfg.StudyPlanHandler != nil {
			protected.GET("/study-plans", cfg.StudyPlanHandler.List)
			protected.POST("/study-plans", cfg.StudyPlanHandler.Create)
			protected.DELETE("/study-plans/:id", cfg.StudyPlanHandler.Delete)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)
			protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		}

		// AI
		if cfg.AIHandler != nil {
			protected.POST("/ai/chat", cfg.AIHandler.Chat)
			protected.POST("/ai/summarize", cfg.AIHandler.Summarize)
			protected.GET("/ai/status", cfg.AIHandler.Status)
		}

		// Voice
		if cfg.VoiceHandler != nil {
			protected.POST("/voice/transcribe", cfg.VoiceHandler.Transcribe)
			protected.DELETE("/voice", cfg.VoiceHandler.Stop)
			protected.GET("/voice/status", cfg.VoiceHandler.Status)
		}
	}

	return r
}
