package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrUnauthorized         = errors.New("authentication required")
	ErrForbidden            = errors.New("action not allowed for this account")
	ErrParticipantOnly      = errors.New("only participants can register for events")
	ErrOrganizationOnly     = errors.New("only organizations can perform this action")
	ErrOrganizationMissing  = errors.New("organization not found")
	ErrOrganizationAppraise = errors.New("organizations cannot review events")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrCapacityExceeded     = errors.New("event is full")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrDuplicateAppraisal   = errors.New("feedback already provided for this event")
	ErrEventNotEnded        = errors.New("event has not ended yet")
	ErrNotAttendee          = errors.New("a confirmed registration is required")
	ErrEmailTaken           = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUpstream             = errors.New("upstream service failure")
)

var codes = map[error]string{
	ErrUnauthorized:         "unauthorized",
	ErrForbidden:            "forbidden",
	ErrParticipantOnly:      "participant_only",
	ErrOrganizationOnly:     "organization_only",
	ErrOrganizationMissing:  "organization_missing",
	ErrOrganizationAppraise: "organization_appraise",
	ErrEventNotFound:        "event_not_found",
	ErrRegistrationNotFound: "registration_not_found",
	ErrUserNotFound:         "user_not_found",
	ErrCapacityExceeded:     "capacity_exceeded",
	ErrAlreadyRegistered:    "already_registered",
	ErrDuplicateAppraisal:   "duplicate_appraisal",
	ErrEventNotEnded:        "event_not_ended",
	ErrNotAttendee:          "not_attendee",
	ErrEmailTaken:           "email_taken",
	ErrInvalidCredentials:   "invalid_credentials",
	ErrUpstream:             "upstream",
}

// Code returns the stable code of the domain error wrapped in err, or "" when
// err does not carry one. Validation errors report "validation".
func Code(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return "validation"
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// ValidationError reports the first input field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
