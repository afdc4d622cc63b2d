package entities

import (
	"time"

	"community/internal/domain"
)

// AppraisalKind distinguishes the two post-event appraisal tables.
type AppraisalKind string

const (
	KindReview   AppraisalKind = "review"
	KindFeedback AppraisalKind = "feedback"
)

// DuplicatePolicy says what a second submission by the same user does.
type DuplicatePolicy int

const (
	// PolicyOverwrite replaces rating and comment of the existing row.
	PolicyOverwrite DuplicatePolicy = iota
	// PolicyReject refuses the second row with domain.ErrDuplicateAppraisal.
	PolicyReject
)

// Policy returns the duplicate policy of the kind.
func (k AppraisalKind) Policy() DuplicatePolicy {
	if k == KindFeedback {
		return PolicyReject
	}
	return PolicyOverwrite
}

// Appraisal is a rating (and optional comment) left on a past event.
type Appraisal struct {
	ID        string
	Kind      AppraisalKind
	UserID    string
	UserName  string
	EventID   string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)

// CheckAppraisalEligibility is the shared gate for reviews and feedback:
// organizations never appraise, the event must be over, and the caller must
// hold a confirmed registration.
func CheckAppraisalEligibility(role string, phase Phase, reg *Registration) error {
	if role == domain.RoleOrganization {
		return domain.ErrOrganizationAppraise
	}
	if phase != PhasePast {
		return domain.ErrEventNotEnded
	}
	if !reg.IsConfirmed() {
		return domain.ErrNotAttendee
	}
	return nil
}

// AverageRating is the arithmetic mean of ratings, 0 for none.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
