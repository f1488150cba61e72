package types

import (
	"time"

	"github.com/google/uuid"
)

// DailyMetric is one row per (course, local calendar date). Field groups are
// contributed by independent sources, so a row may be only partially
// populated. Count fields default to zero; rating, average and median are
// nullable and nil means "unknown", not zero.
type DailyMetric struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_metric_course_date;index" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Date     Date      `gorm:"column:date;type:date;not null;uniqueIndex:idx_daily_metric_course_date" json:"date"`

	// From attempts.
	TotalAttempts   int `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
	CorrectAttempts int `gorm:"column:correct_attempts;not null;default:0" json:"correct_attempts"`
	WrongAttempts   int `gorm:"column:wrong_attempts;not null;default:0" json:"wrong_attempts"`
	ActiveUsers     int `gorm:"column:active_users;not null;default:0" json:"active_users"`

	// From enrollments and certificates.
	NewStudents        int `gorm:"column:new_students;not null;default:0" json:"new_students"`
	CertificatesIssued int `gorm:"column:certificates_issued;not null;default:0" json:"certificates_issued"`

	// From reviews.
	ReviewsCount   int      `gorm:"column:reviews_count;not null;default:0" json:"reviews_count"`
	ReviewsStar1   *int     `gorm:"column:reviews_star1" json:"reviews_star1,omitempty"`
	ReviewsStar2   *int     `gorm:"column:reviews_star2" json:"reviews_star2,omitempty"`
	ReviewsStar3   *int     `gorm:"column:reviews_star3" json:"reviews_star3,omitempty"`
	ReviewsStar4   *int     `gorm:"column:reviews_star4" json:"reviews_star4,omitempty"`
	ReviewsStar5   *int     `gorm:"column:reviews_star5" json:"reviews_star5,omitempty"`
	ReviewsAverage *float64 `gorm:"column:reviews_average" json:"reviews_average,omitempty"`
	ReviewsMedian  *float64 `gorm:"column:reviews_median" json:"reviews_median,omitempty"`

	// From rating snapshots.
	RatingValue *float64 `gorm:"column:rating_value" json:"rating_value,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DailyMetric) TableName() string { return "daily_metric" }
