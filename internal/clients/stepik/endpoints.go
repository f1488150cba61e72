package stepik

import "fmt"

type Resource string

const (
	ResourceAttempts     Resource = "attempts"
	ResourceEnrollments  Resource = "enrollments"
	ResourceCertificates Resource = "certificates"
	ResourceReviews      Resource = "reviews"
	ResourceRatings      Resource = "ratings"
)

// Endpoints maps each resource to its full URL. An empty entry means the
// upstream API does not document that endpoint; fetches for it report
// Unavailable without issuing a request.
type Endpoints struct {
	Attempts     string
	Enrollments  string
	Certificates string
	Reviews      string
	Ratings      string
}

func (e Endpoints) forResource(res Resource) string {
	switch res {
	case ResourceAttempts:
		return e.Attempts
	case ResourceEnrollments:
		return e.Enrollments
	case ResourceCertificates:
		return e.Certificates
	case ResourceReviews:
		return e.Reviews
	case ResourceRatings:
		return e.Ratings
	default:
		return ""
	}
}

func unavailableReason(res Resource) string {
	return fmt.Sprintf("endpoint for %s is not published in the Stepik API documentation", res)
}
