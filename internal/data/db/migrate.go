package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureLessonGraphConstraints adds the Postgres-only guards gorm tags cannot express.
func EnsureLessonGraphConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_lesson_prerequisite_not_self') THEN
				ALTER TABLE lesson_prerequisite
				ADD CONSTRAINT chk_lesson_prerequisite_not_self CHECK (lesson_id <> prerequisite_id);
			END IF;
		END $$;
	`).Error; err != nil {
		return fmt.Errorf("create chk_lesson_prerequisite_not_self: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_progress_user_status
		ON lesson_progress (user_id, status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_progress_user_status: %w", err)
	}
	return nil
}

func Migrate(db *gorm.DB, log *logger.Logger) error {
	log.Info("Auto migrating tables...", "dialect", db.Dialector.Name())
	if err := AutoMigrateAll(db); err != nil {
		log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureLessonGraphConstraints(db); err != nil {
		log.Error("Lesson graph constraint migration failed", "error", err)
		return err
	}
	return nil
}
