package types

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StepikID int64     `gorm:"column:stepik_id;not null;uniqueIndex" json:"stepik_id"`
	Title    string    `gorm:"column:title;not null" json:"title"`
	URL      string    `gorm:"column:url" json:"url"`

	AddedAt    time.Time  `gorm:"column:added_at;not null" json:"added_at"`
	SyncStatus SyncStatus `gorm:"column:sync_status;not null;default:'never';index" json:"sync_status"`
	LastSyncAt *time.Time `gorm:"column:last_sync_at" json:"last_sync_at,omitempty"`
	LastError  *string    `gorm:"column:last_error" json:"last_error,omitempty"`

	// LastSyncedEventAt is the high-water mark: the newest event instant
	// already merged, used to compute the next sync window.
	LastSyncedEventAt *time.Time `gorm:"column:last_synced_event_at" json:"last_synced_event_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }
