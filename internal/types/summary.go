package types

// Summary is the per-range rollup of daily metrics. Nullable fields stay nil
// when the range holds no known value.
type Summary struct {
	TotalAttempts      int `json:"total_attempts"`
	CorrectAttempts    int `json:"correct_attempts"`
	WrongAttempts      int `json:"wrong_attempts"`
	NewStudents        int `json:"new_students"`
	CertificatesIssued int `json:"certificates_issued"`
	ReviewsCount       int `json:"reviews_count"`
	ActiveUsers        int `json:"active_users"`

	RatingValue    *float64 `json:"rating_value,omitempty"`
	ReviewsAverage *float64 `json:"reviews_average,omitempty"`
	ReviewsMedian  *float64 `json:"reviews_median,omitempty"`

	ReviewsStar1 int `json:"reviews_star1"`
	ReviewsStar2 int `json:"reviews_star2"`
	ReviewsStar3 int `json:"reviews_star3"`
	ReviewsStar4 int `json:"reviews_star4"`
	ReviewsStar5 int `json:"reviews_star5"`
}

// AggregatedSummary pairs a range's summary with the summary of the
// immediately preceding range of the same kind.
type AggregatedSummary struct {
	Current  Summary `json:"current"`
	Previous Summary `json:"previous"`
}
