package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/db"
	"github.com/yungbote/studyquiz-backend/internal/http"
	"github.com/yungbote/studyquiz-backend/internal/jobs/reminder"
	"github.com/yungbote/studyquiz-backend/internal/jobs/sweeper"
	"github.com/yungbote/studyquiz-backend/internal/observability"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics
	Reminder *reminder.Job
	Sweeper  *sweeper.Job

	pg           *db.PostgresService
	shutdownOTel func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfigFromEnv(log))
	metrics := observability.Init(cfg.MetricsEnabled, cfg.MetricsScrape)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(context.Background(), log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	job := reminder.New(log, reposet.User, reposet.DailyPractice, serviceset.Notification, clients.Email)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		Reminder:     job,
		Sweeper:      sweeper.New(log, serviceset.Auth),
		pg:           pg,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Start launches the cron jobs and the metrics collectors.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.Reminder.Start(ctx, a.Cfg.ReminderCron); err != nil {
		return err
	}
	if err := a.Sweeper.Start(ctx, a.Cfg.SweepCron); err != nil {
		return err
	}
	if a.Metrics != nil {
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Close drains the HTTP server and releases every client.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	a.Clients.Close()
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
