package stepik

import "time"

type Attempt struct {
	AttemptID int64     `json:"attemptId"`
	CourseID  int64     `json:"courseId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	IsCorrect bool      `json:"isCorrect"`
}

type Enrollment struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Certificate struct {
	UserID   int64     `json:"userId"`
	IssuedAt time.Time `json:"issuedAt"`
}

type Review struct {
	ReviewID  int64     `json:"reviewId"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
}

type Rating struct {
	Rating     float64   `json:"rating"`
	RecordedAt time.Time `json:"recordedAt"`
}

// page is the wire shape of one response page. NextPage is null on the last
// page.
type page[T any] struct {
	Items    []T    `json:"items"`
	NextPage string `json:"nextPage"`
}
