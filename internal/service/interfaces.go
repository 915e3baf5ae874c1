package service

import (
	"context"

	"github.com/pageza/feedback-api/backend/internal/models"
)

// FeedbackStore is the persistence gateway the feedback service depends on
type FeedbackStore interface {
	ListAll(ctx context.Context) ([]models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	UpdateByID(ctx context.Context, id int64, rating int, description *string, satisfaction models.Satisfaction) error
	DeleteByID(ctx context.Context, id int64) error
}

// IFeedbackService defines the interface for feedback operations
type IFeedbackService interface {
	List(ctx context.Context) ([]models.Feedback, error)
	Create(ctx context.Context, rating int, description *string) (*models.Feedback, error)
	Get(ctx context.Context, id int64) (*models.Feedback, error)
	Update(ctx context.Context, id int64, rating int, description *string) (*models.Feedback, error)
	Delete(ctx context.Context, id int64) error
}
