package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pageza/feedback-api/backend/internal/models"
)

// ErrFeedbackNotFound is returned by Get and Update for unknown ids
var ErrFeedbackNotFound = errors.New("feedback not found")

type FeedbackService struct {
	store FeedbackStore
}

func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

// List returns all feedback, oldest first
func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	return s.store.ListAll(ctx)
}

// Create classifies the rating and stores a new record
func (s *FeedbackService) Create(ctx context.Context, rating int, description *string) (*models.Feedback, error) {
	satisfaction, err := models.SatisfactionForRating(rating)
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		Rating:       rating,
		Satisfaction: satisfaction,
		Description:  description,
	}
	if err := s.store.Create(ctx, feedback); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int64("feedback_id", feedback.ID).
		Int("rating", feedback.Rating).
		Str("satisfaction", string(feedback.Satisfaction)).
		Msg("Feedback created")
	return feedback, nil
}

// Get returns the record with the given id or ErrFeedbackNotFound
func (s *FeedbackService) Get(ctx context.Context, id int64) (*models.Feedback, error) {
	feedback, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if feedback == nil {
		return nil, fmt.Errorf("%w: %d", ErrFeedbackNotFound, id)
	}
	return feedback, nil
}

// Update checks the record exists, reclassifies the new rating and overwrites
// rating, description and satisfaction. The returned record is the one read
// before the write with the new values applied; ID and CreatedAt are unchanged.
func (s *FeedbackService) Update(ctx context.Context, id int64, rating int, description *string) (*models.Feedback, error) {
	feedback, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	satisfaction, err := models.SatisfactionForRating(rating)
	if err != nil {
		return nil, err
	}

	feedback.Rating = rating
	feedback.Description = description
	feedback.Satisfaction = satisfaction

	if err := s.store.UpdateByID(ctx, id, feedback.Rating, feedback.Description, feedback.Satisfaction); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int64("feedback_id", id).
		Int("rating", rating).
		Str("satisfaction", string(satisfaction)).
		Msg("Feedback updated")
	return feedback, nil
}

// Delete removes the record. Unknown ids are not reported.
func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Int64("feedback_id", id).Msg("Feedback deleted")
	return nil
}
