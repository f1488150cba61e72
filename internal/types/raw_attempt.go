package types

import (
	"time"

	"github.com/google/uuid"
)

// RawAttempt is one external attempt event. At most one row exists per
// (course, external attempt id); re-fetching a known attempt id is a no-op.
type RawAttempt struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_raw_attempt_course_attempt;index" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	AttemptID int64     `gorm:"column:attempt_id;not null;uniqueIndex:idx_raw_attempt_course_attempt" json:"attempt_id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	IsCorrect bool      `gorm:"column:is_correct;not null" json:"is_correct"`
}

func (RawAttempt) TableName() string { return "raw_attempt" }
