package app

import (
	"time"

	"github.com/yungbote/studyquiz-backend/internal/http/middleware"
	"github.com/yungbote/studyquiz-backend/internal/jobs/reminder"
	"github.com/yungbote/studyquiz-backend/internal/jobs/sweeper"
	"github.com/yungbote/studyquiz-backend/internal/platform/envutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	ServiceName     string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowedOrigins  []string

	VoiceEnabled   bool
	ReminderCron   string
	SweepCron      string
	AIRateLimit    int
	AIRateWindow   time.Duration
	MetricsEnabled bool
	MetricsAddr    string
	MetricsScrape  time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:            envutil.String("PORT", "8080", log),
		ServiceName:     envutil.String("SERVICE_NAME", "studyquiz-backend", log),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour, log),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 24*time.Hour, log),
		AllowedOrigins:  envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins, log),

		VoiceEnabled:   envutil.Bool("VOICE_ENABLED", false, log),
		ReminderCron:   envutil.String("NOTIFY_REMINDER_CRON", reminder.DefaultSchedule, log),
		SweepCron:      envutil.String("SESSION_SWEEP_CRON", sweeper.DefaultSchedule, log),
		AIRateLimit:    envutil.Int("AI_RATE_LIMIT", 30, log),
		AIRateWindow:   envutil.Seconds("AI_RATE_WINDOW_SECONDS", time.Minute, log),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true, log),
		MetricsAddr:    envutil.String("METRICS_ADDR", ":9090", log),
		MetricsScrape:  envutil.Seconds("METRICS_SCRAPE_SECONDS", 15*time.Second, log),
	}
}
