package database

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/feedback-api/backend/internal/models"
)

// Migrate creates the feedback schema if it does not exist. On PostgreSQL the
// satisfaction enum type is created first.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(createSatisfactionEnumSQL()).Error; err != nil {
			return fmt.Errorf("failed to create %s type: %w", models.SatisfactionEnumType, err)
		}
	}

	if err := db.AutoMigrate(&models.Feedback{}); err != nil {
		return fmt.Errorf("failed to migrate feedback table: %w", err)
	}

	log.Info().Str("dialect", db.Dialector.Name()).Msg("Schema is up to date")
	return nil
}

// Reset drops the feedback schema and creates it again. All rows are lost.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&models.Feedback{}); err != nil {
		return fmt.Errorf("failed to drop feedback table: %w", err)
	}
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("DROP TYPE IF EXISTS " + models.SatisfactionEnumType).Error; err != nil {
			return fmt.Errorf("failed to drop %s type: %w", models.SatisfactionEnumType, err)
		}
	}

	log.Warn().Msg("Dropped feedback schema")
	return Migrate(db)
}

func createSatisfactionEnumSQL() string {
	labels := make([]string, len(models.SatisfactionLevels))
	for i, level := range models.SatisfactionLevels {
		labels[i] = "'" + strings.ReplaceAll(string(level), "'", "''") + "'"
	}
	return fmt.Sprintf(`
		DO $$ BEGIN
			CREATE TYPE %s AS ENUM (%s);
		EXCEPTION
			WHEN duplicate_object THEN null;
		END $$;
	`, models.SatisfactionEnumType, strings.Join(labels, ", "))
}
