package types

import (
	"time"

	"github.com/google/uuid"
)

// SyncRun is one append-only audit record per sync attempt. FinishedAt is set
// exactly once, on every exit path.
type SyncRun struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	StartedAt  time.Time     `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time    `gorm:"column:finished_at" json:"finished_at,omitempty"`
	Status     SyncRunStatus `gorm:"column:status;not null" json:"status"`
	ErrorText  *string       `gorm:"column:error_text" json:"error_text,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SyncRun) TableName() string { return "sync_run" }
