package api

import (
	"time"

	"github.com/pageza/feedback-api/backend/internal/models"
)

// FeedbackRequest is the body accepted by create and update
type FeedbackRequest struct {
	Rating      *int    `json:"rating" binding:"required,min=1,max=5"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// FeedbackResponse is the serialized form of a stored record
type FeedbackResponse struct {
	ID           int64     `json:"id"`
	Rating       int       `json:"rating"`
	Satisfaction string    `json:"satisfaction"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes one failed validation rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func toResponse(feedback *models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:           feedback.ID,
		Rating:       feedback.Rating,
		Satisfaction: string(feedback.Satisfaction),
		Description:  feedback.Description,
		CreatedAt:    feedback.CreatedAt,
	}
}
