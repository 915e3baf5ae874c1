package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/feedback-api/backend/internal/database"
	"github.com/pageza/feedback-api/backend/internal/models"
)

// FeedbackRepository is the only component that reads or writes feedback rows.
// Every method runs in its own session and commits before returning.
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a repository on top of a shared pool
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// ListAll returns every record, oldest first
func (r *FeedbackRepository) ListAll(ctx context.Context) ([]models.Feedback, error) {
	feedback := []models.Feedback{}
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Order("created_at ASC").Order("id ASC").Find(&feedback).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}

// Create inserts feedback and refreshes it from the stored row, so the caller
// sees the assigned ID and CreatedAt exactly as they were persisted
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if !feedback.Satisfaction.Valid() {
		return fmt.Errorf("failed to create feedback: %w: %q", models.ErrInvalidSatisfaction, feedback.Satisfaction)
	}

	// Both are owned by the store
	feedback.ID = 0
	feedback.CreatedAt = time.Time{}

	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(feedback).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", feedback.ID).Take(feedback).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// GetByID returns the record with the given id, or nil when there is none
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	var feedback models.Feedback
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Take(&feedback).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback %d: %w", id, err)
	}
	return &feedback, nil
}

// UpdateByID overwrites rating, description and satisfaction of the matching
// row. A missing row is not an error. Labels outside the enum are rejected
// before any write, since SQLite stores the column as plain text.
func (r *FeedbackRepository) UpdateByID(ctx context.Context, id int64, rating int, description *string, satisfaction models.Satisfaction) error {
	if !satisfaction.Valid() {
		return fmt.Errorf("failed to update feedback %d: %w: %q", id, models.ErrInvalidSatisfaction, satisfaction)
	}

	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Model(&models.Feedback{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"rating":       rating,
				"description":  description,
				"satisfaction": satisfaction,
			}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update feedback %d: %w", id, err)
	}
	return nil
}

// DeleteByID permanently removes the matching row. A missing row is not an
// error.
func (r *FeedbackRepository) DeleteByID(ctx context.Context, id int64) error {
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&models.Feedback{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete feedback %d: %w", id, err)
	}
	return nil
}
