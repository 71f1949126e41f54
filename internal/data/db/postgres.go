package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/studyquiz-backend/internal/platform/envutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

func PostgresConfigFromEnv(log *logger.Logger) PostgresConfig {
	return PostgresConfig{
		Host:     envutil.String("POSTGRES_HOST", "localhost", log),
		Port:     envutil.String("POSTGRES_PORT", "5432", log),
		User:     envutil.String("POSTGRES_USER", "postgres", log),
		Password: envutil.String("POSTGRES_PASSWORD", "", log),
		Name:     envutil.String("POSTGRES_NAME", "studyquiz", log),
		SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
		MaxOpen:  envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20, log),
		MaxIdle:  envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5, log),
	}
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

func NewPostgresService(logg *logger.Logger) (*PostgresService, error) {
	return NewPostgresServiceWithConfig(logg, PostgresConfigFromEnv(logg))
}

func NewPostgresServiceWithConfig(logg *logger.Logger, cfg PostgresConfig) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	serviceLog.Info("Connected to Postgres", "host", cfg.Host, "database", cfg.Name)
	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
