package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Satisfaction is the human-readable label derived from a rating
type Satisfaction string

const (
	VerySatisfied    Satisfaction = "Very Satisfied"
	Satisfied        Satisfaction = "Satisfied"
	Neutral          Satisfaction = "Neutral"
	Dissatisfied     Satisfaction = "Dissatisfied"
	VeryDissatisfied Satisfaction = "Very Dissatisfied"
)

// SatisfactionEnumType is the PostgreSQL enum backing the satisfaction column
const SatisfactionEnumType = "satisfaction_level"

// SatisfactionLevels lists every label the column accepts, in enum order.
// Dissatisfied is accepted by the store but never produced by SatisfactionForRating.
var SatisfactionLevels = []Satisfaction{
	VerySatisfied,
	Satisfied,
	Neutral,
	Dissatisfied,
	VeryDissatisfied,
}

// Valid reports whether s is one of the known labels
func (s Satisfaction) Valid() bool {
	for _, level := range SatisfactionLevels {
		if s == level {
			return true
		}
	}
	return false
}

// GormDBDataType maps the label to the native enum on PostgreSQL and to plain
// text everywhere else
func (Satisfaction) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return SatisfactionEnumType
	}
	return "text"
}

// Feedback is a single rating submitted by a client
type Feedback struct {
	ID           int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Rating       int          `gorm:"not null" json:"rating"`
	Satisfaction Satisfaction `gorm:"not null" json:"satisfaction"`
	Description  *string      `gorm:"type:text" json:"description"`
	// CreatedAt is stamped by gorm (NowFunc, UTC) in the application process on
	// insert, not by the database clock. The column default only covers rows
	// inserted outside gorm.
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName returns the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedback"
}
