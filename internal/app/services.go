package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/platform/redisx"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Quiz         services.QuizService
	QuizSession  services.QuizSessionService
	Analytics    services.AnalyticsService
	Progress     services.ProgressService
	StudyPlan    services.StudyPlanService
	Notification services.NotificationService
	ResourceBook services.ResourceBookService
	AI           services.AIService
	Voice        services.VoiceService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	auth := services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	user := services.NewUserService(db, log, r.User)
	notifications := services.NewNotificationService(db, log, r.Notification)
	quiz := services.NewQuizService(db, log, r.Subject, r.Question, r.QuizAttempt, r.DailyPractice)

	// Session state and caches move to Redis when it is configured.
	store := services.NewMemoryQuizSessionStore()
	var (
		leaderboardCache *redisx.JSONCache
		aiLimiter        *redisx.RateLimiter
	)
	if c.Redis != nil {
		store = services.NewRedisQuizSessionStore(c.Redis)
		leaderboardCache = redisx.NewJSONCache(c.Redis, services.LeaderboardCacheTTL)
		if cfg.AIRateLimit > 0 {
			aiLimiter = redisx.NewRateLimiter(c.Redis, cfg.AIRateLimit, cfg.AIRateWindow)
		}
	}
	sessions := services.NewQuizSessionService(db, log, store, quiz, notifications, r.QuizAttempt, r.QuizResponse)

	analytics := services.NewAnalyticsService(db, log, r.QuizAttempt, r.QuizResponse, r.DailyPractice, leaderboardCache)
	progress, err := services.NewProgressService(db, log, r.QuizAttempt, r.DailyPractice)
	if err != nil {
		return Services{}, fmt.Errorf("init progress service: %w", err)
	}
	plans := services.NewStudyPlanService(db, log, r.StudyPlan, r.DailyPractice, r.Subject, notifications)
	books := services.NewResourceBookService(db, log, r.ResourceBook, c.GcpBucket)
	aiSvc := services.NewAIService(log, instrumentAIRouter(c.AI), aiLimiter)
	voiceSvc := services.NewVoiceService(log, c.recognizer())

	return Services{
		Auth:         auth,
		User:         user,
		Quiz:         quiz,
		QuizSession:  sessions,
		Analytics:    analytics,
		Progress:     progress,
		StudyPlan:    plans,
		Notification: notifications,
		ResourceBook: books,
		AI:           aiSvc,
		Voice:        voiceSvc,
	}, nil
}
