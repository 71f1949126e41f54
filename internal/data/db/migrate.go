package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Running auto migrations", "models", len(types.Models()))
	return AutoMigrateAll(s.db)
}
