package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRating is returned for ratings outside 1..5
var ErrInvalidRating = errors.New("invalid rating")

// ErrInvalidSatisfaction is returned when a label outside SatisfactionLevels
// is about to be written
var ErrInvalidSatisfaction = errors.New("invalid satisfaction")

// SatisfactionForRating maps a 1..5 rating to its label. There is no fallback
// label; anything else is an error.
func SatisfactionForRating(rating int) (Satisfaction, error) {
	switch rating {
	case 5:
		return VerySatisfied, nil
	case 4, 3:
		return Satisfied, nil
	case 2:
		return Neutral, nil
	case 1:
		return VeryDissatisfied, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
}
